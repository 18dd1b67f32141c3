package models

import (
	"gorm.io/gorm"
)

// DateLayout is the timestamp format stored on transactions.
const DateLayout = "2006-01-02 15:04:05"

// Transaction is immutable once written; removed only when its member is deleted.
type Transaction struct {
	gorm.Model
	MemberID uint   `gorm:"not null;index" json:"memberId"`
	Amount   int64  `gorm:"not null" json:"amount"`
	Date     string `gorm:"not null" json:"date"`

	Member Member `gorm:"foreignKey:MemberID" json:"-"`
}
