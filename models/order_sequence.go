package models

// OrderSequence holds the last order number sequence issued for one business day.
type OrderSequence struct {
	Day       string `gorm:"primaryKey;type:varchar(8)"`
	LastValue int    `gorm:"not null"`
}
