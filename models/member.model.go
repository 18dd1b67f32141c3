package models

import (
	"gorm.io/gorm"
)

// Member is one ledger entry owner; its balance only moves through transactions.
type Member struct {
	gorm.Model
	Name    string `gorm:"not null" json:"name"`
	Balance int64  `gorm:"default:0" json:"balance"`
	UserID  uint   `gorm:"not null;index" json:"userId"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
