package models

import "time"

const (
	LanguageEnglish   = "English"
	LanguageIndonesia = "Indonesia"
)

type UserSettings struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;uniqueIndex" json:"userId"`
	Language       string    `gorm:"type:varchar(20);not null;default:'Indonesia'" json:"language"`
	PreferenceMode string    `gorm:"type:varchar(10);not null;default:'light'" json:"preferenceMode"`
	FontSize       int       `gorm:"not null;default:16" json:"fontSize"`
	ZoomDisplay    int       `gorm:"not null;default:100" json:"zoomDisplay"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// DefaultUserSettings returns the settings a newly registered user starts with.
func DefaultUserSettings(userID uint) UserSettings {
	return UserSettings{
		UserID:         userID,
		Language:       LanguageIndonesia,
		PreferenceMode: "light",
		FontSize:       16,
		ZoomDisplay:    100,
	}
}
