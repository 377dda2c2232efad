package model

import (
	"time"

	"github.com/google/uuid"
)

type BankDetails struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	BankCode      string    `gorm:"type:varchar(10);not null"`
	BankName      string    `gorm:"type:varchar(100);not null"`
	AccountNumber string    `gorm:"type:char(10);not null;uniqueIndex"`
	AccountName   string    `gorm:"type:varchar(255);not null"`
	IsDefault     bool      `gorm:"default:true"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (BankDetails) TableName() string {
	return "bank_details"
}
