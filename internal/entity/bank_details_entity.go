package entity

import (
	"time"

	"github.com/google/uuid"
)

// BankDetails is a user's single verified payout destination. The account
// number is unique across all users, not just per user.
type BankDetails struct {
	Id            uuid.UUID
	UserId        uuid.UUID
	BankCode      string
	BankName      string
	AccountNumber string
	AccountName   string
	IsDefault     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
