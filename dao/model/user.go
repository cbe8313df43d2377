package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User is the basic entity of the system. Builders own projects; customers
// only exist as a login plus a lead row.
type User struct {
	gorm.Model
	Name       string                            `gorm:"type:varchar(64);not null;comment:full name"`
	Email      string                            `gorm:"uniqueIndex;type:varchar(128);not null;comment:login email"`
	Phone      *string                           `gorm:"type:varchar(32);comment:phone number"`
	Password   *string                           `gorm:"type:varchar(128);comment:bcrypt hash, nil for OAuth-only users"`
	Role       Role                              `gorm:"not null;comment:platform role (customer, builder, admin)"`
	Status     Status                            `gorm:"not null;comment:user status (pending, active, inactive)"`
	Attributes datatypes.JSONType[UserAttribute] `gorm:"comment:metadata attached at signup"`
	Projects   []Project
}

// UserAttribute is the metadata attached at signup.
type UserAttribute struct {
	BusinessName string `json:"businessName,omitempty"`
	Address      string `json:"address,omitempty"`
	City         string `json:"city,omitempty"`
}

// OTPCode is a pending phone verification code. The code itself is stored
// hashed; rows are consumed on first successful verify.
type OTPCode struct {
	gorm.Model
	Phone     string `gorm:"index;type:varchar(32);not null"`
	CodeHash  string `gorm:"type:varchar(64);not null"`
	ExpiresAt int64  `gorm:"not null;comment:expiry (unix seconds)"`
	Consumed  bool   `gorm:"not null;default:false"`
}

// ResetToken is a pending password reset request.
type ResetToken struct {
	gorm.Model
	UserID    uint   `gorm:"index;not null"`
	TokenHash string `gorm:"type:varchar(64);not null"`
	ExpiresAt int64  `gorm:"not null;comment:expiry (unix seconds)"`
	Consumed  bool   `gorm:"not null;default:false"`
}
