package models

import "time"

const (
	RoleAdmin = "admin"
	RoleKasir = "kasir"
)

const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

type User struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	Username  string        `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email     string        `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string        `gorm:"type:varchar(255);not null" json:"-"`
	Role      string        `gorm:"type:varchar(20);not null;default:'kasir'" json:"role"`
	Status    string        `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	ImageKey  *string       `gorm:"type:varchar(255)" json:"-"`
	ImageURL  *string       `gorm:"-" json:"image,omitempty"`
	Settings  *UserSettings `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"settings,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}
