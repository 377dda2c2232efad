package entity

import (
	"time"

	"github.com/google/uuid"
)

type WithdrawalStatus string

const (
	WithdrawalStatusPending    WithdrawalStatus = "pending"
	WithdrawalStatusProcessing WithdrawalStatus = "processing"
	WithdrawalStatusCompleted  WithdrawalStatus = "completed"
	WithdrawalStatusFailed     WithdrawalStatus = "failed"
	WithdrawalStatusCancelled  WithdrawalStatus = "cancelled"
)

// Withdrawal carries a snapshot of the destination bank taken at request
// time, so later edits to the user's BankDetails never rewrite history.
// The earnings it consumed point back via Earning.WithdrawalId.
type Withdrawal struct {
	Id              uuid.UUID
	UserId          uuid.UUID
	Amount          float64
	BankCode        string
	BankName        string
	AccountNumber   string
	AccountName     string
	Status          WithdrawalStatus
	PayoutReference *string
	FailureReason   *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
