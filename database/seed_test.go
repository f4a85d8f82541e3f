package database_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/pos-app/database"
	"github.com/yeremiapane/pos-app/models"
	"github.com/yeremiapane/pos-app/testutil"
	"golang.org/x/crypto/bcrypt"
)

func TestSeedCatalog(t *testing.T) {
	db := testutil.NewTestDB(t)

	require.NoError(t, database.SeedCatalog(db))
	require.NoError(t, database.SeedCatalog(db))

	assert.Equal(t, int64(5), testutil.CountRows(t, db, &models.Category{}))
	assert.Equal(t, int64(10), testutil.CountRows(t, db, &models.Product{}))

	var product models.Product
	require.NoError(t, db.Preload("Category").Where("name = ?", "Es Teh Manis").Take(&product).Error)
	assert.Equal(t, "8000", product.Price.String())
	require.NotNil(t, product.Category)
	assert.Equal(t, "Beverages", product.Category.Name)
}

func TestSeedCatalogSkipsExistingCatalog(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.CreateCategory(t, db, "House Specials")

	require.NoError(t, database.SeedCatalog(db))

	assert.Equal(t, int64(1), testutil.CountRows(t, db, &models.Category{}))
	assert.Equal(t, int64(0), testutil.CountRows(t, db, &models.Product{}))
}

func TestSeedAdmin(t *testing.T) {
	db := testutil.NewTestDB(t)
	seed := database.AdminSeed{Username: "owner", Password: "owner-pass"}

	require.NoError(t, database.SeedAdmin(db, seed))
	require.NoError(t, database.SeedAdmin(db, database.AdminSeed{Username: "second", Password: "other-pass"}))

	var admins []models.User
	require.NoError(t, db.Where("role = ?", models.RoleAdmin).Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.Equal(t, "owner", admins[0].Username)
	assert.Equal(t, "owner@pos.local", admins[0].Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admins[0].Password), []byte("owner-pass")))
	assert.Equal(t, int64(1), testutil.CountRows(t, db, &models.UserSettings{}))
}

func TestSeedAdminWithoutCredentialsIsNoop(t *testing.T) {
	db := testutil.NewTestDB(t)

	require.NoError(t, database.SeedAdmin(db, database.AdminSeed{}))
	assert.Equal(t, int64(0), testutil.CountRows(t, db, &models.User{}))
}
