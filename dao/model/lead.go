package model

import "gorm.io/gorm"

// Lead is a prospective buyer captured at customer signup.
type Lead struct {
	gorm.Model
	Name    string  `gorm:"type:varchar(64);not null"`
	Email   string  `gorm:"index;type:varchar(128);not null"`
	Phone   *string `gorm:"type:varchar(32)"`
	Message string  `gorm:"type:varchar(512);comment:what the customer is looking for"`
}
