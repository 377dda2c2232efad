package dto

import (
	"time"

	"github.com/google/uuid"
)

// WithdrawalRequest carries the destination bank details the client claims;
// the engine re-validates them against the user's saved BankDetails before
// any earning is touched.
type WithdrawalRequest struct {
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	BankCode      string  `json:"bank_code" validate:"required,max=10"`
	BankName      string  `json:"bank_name" validate:"required,max=100"`
	AccountNumber string  `json:"account_number" validate:"required"`
	AccountName   string  `json:"account_name" validate:"required,max=255"`
}

type WithdrawalResponse struct {
	Id                 uuid.UUID   `json:"id"`
	Amount             float64     `json:"amount"`
	BankCode           string      `json:"bank_code"`
	BankName           string      `json:"bank_name"`
	AccountNumber      string      `json:"account_number"`
	AccountName        string      `json:"account_name"`
	Status             string      `json:"status"`
	PayoutReference    *string     `json:"payout_reference,omitempty"`
	FailureReason      *string     `json:"failure_reason,omitempty"`
	ConsumedEarningIds []uuid.UUID `json:"consumed_earning_ids,omitempty"`
	CreatedAt          time.Time   `json:"created_at"`
}

type WithdrawalListResponse struct {
	Items []*WithdrawalResponse `json:"items"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

// WithdrawalNotification is the internal pub/sub payload consumed by the
// notification worker.
type WithdrawalNotification struct {
	WithdrawalId uuid.UUID `json:"withdrawal_id"`
	UserId       uuid.UUID `json:"user_id"`
	Email        string    `json:"email"`
	Amount       float64   `json:"amount"`
	Status       string    `json:"status"`
	Reason       string    `json:"reason,omitempty"`
}
