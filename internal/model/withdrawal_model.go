package model

import (
	"time"

	"github.com/google/uuid"
)

type Withdrawal struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId          uuid.UUID `gorm:"type:uuid;not null;index"`
	Amount          float64   `gorm:"type:numeric(14,2);not null"`
	BankCode        string    `gorm:"type:varchar(10);not null"`
	BankName        string    `gorm:"type:varchar(100);not null"`
	AccountNumber   string    `gorm:"type:char(10);not null"`
	AccountName     string    `gorm:"type:varchar(255);not null"`
	Status          string    `gorm:"type:varchar(20);not null;index"`
	PayoutReference *string   `gorm:"type:varchar(100);uniqueIndex"`
	FailureReason   *string   `gorm:"type:text"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

func (Withdrawal) TableName() string {
	return "withdrawals"
}
