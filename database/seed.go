package database

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/pos-app/models"
	"github.com/yeremiapane/pos-app/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AdminSeed struct {
	Username string
	Email    string
	Password string
}

// SeedAdmin creates the first admin account. Admins cannot self-register,
// so this is the only way to bootstrap one. It is a no-op when any admin exists.
func SeedAdmin(db *gorm.DB, seed AdminSeed) error {
	if seed.Username == "" || seed.Password == "" {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var existing models.User
		err := tx.Where("role = ?", models.RoleAdmin).Take(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}

		email := seed.Email
		if email == "" {
			email = seed.Username + "@pos.local"
		}
		admin := models.User{
			Username: seed.Username,
			Email:    email,
			Password: string(hashed),
			Role:     models.RoleAdmin,
			Status:   models.UserStatusActive,
		}
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}
		settings := models.DefaultUserSettings(admin.ID)
		if err := tx.Create(&settings).Error; err != nil {
			return err
		}

		utils.InfoLogger.WithField("username", admin.Username).Info("Seeded admin account")
		return nil
	})
}

type productSeed struct {
	name        string
	description string
	price       int64
}

type categorySeed struct {
	name     string
	products []productSeed
}

var starterCatalog = []categorySeed{
	{"Foods", []productSeed{
		{"Nasi Goreng Spesial", "Nasi goreng dengan telur, ayam, dan udang.", 35000},
		{"Mie Ayam Bakso", "Mie ayam klasik dengan topping bakso sapi.", 25000},
	}},
	{"Beverages", []productSeed{
		{"Es Teh Manis", "Minuman teh dingin yang menyegarkan.", 8000},
		{"Jus Alpukat", "Jus buah alpukat segar dengan susu kental manis.", 18000},
	}},
	{"Dessert", []productSeed{
		{"Pancake Coklat", "Pancake lembut dengan saus coklat dan es krim vanilla.", 28000},
		{"Brownies Kukus", "Brownies coklat lembut dengan taburan kacang.", 22000},
	}},
	{"Snacks", []productSeed{
		{"Kentang Goreng", "Kentang goreng renyah dengan saus sambal.", 15000},
		{"Tahu Isi", "Tahu goreng isi sayuran dengan saus kacang.", 12000},
	}},
	{"Drinks", []productSeed{
		{"Kopi Hitam", "Kopi hitam pekat tanpa gula.", 10000},
		{"Cappuccino", "Kopi dengan susu berbusa dan taburan coklat.", 20000},
	}},
}

// SeedCatalog loads the starter menu for development. It does nothing once any category exists.
func SeedCatalog(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Category{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		products := 0
		for _, c := range starterCatalog {
			category := models.Category{Name: c.name}
			if err := tx.Create(&category).Error; err != nil {
				return fmt.Errorf("seed category %s: %w", c.name, err)
			}
			for _, p := range c.products {
				product := models.Product{
					CategoryID:  category.ID,
					Name:        p.name,
					Description: p.description,
					Price:       decimal.NewFromInt(p.price),
				}
				if err := tx.Create(&product).Error; err != nil {
					return fmt.Errorf("seed product %s: %w", p.name, err)
				}
				products++
			}
		}

		utils.InfoLogger.WithFields(logrus.Fields{
			"categories": len(starterCatalog),
			"products":   products,
		}).Info("Seeded starter catalog")
		return nil
	})
}
