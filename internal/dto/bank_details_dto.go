package dto

import (
	"time"

	"github.com/google/uuid"
)

type SaveBankDetailsRequest struct {
	BankCode      string `json:"bank_code" validate:"required,max=10"`
	BankName      string `json:"bank_name" validate:"required,max=100"`
	AccountNumber string `json:"account_number" validate:"required"`
	AccountName   string `json:"account_name" validate:"required,max=255"`
}

type BankDetailsResponse struct {
	Id            uuid.UUID `json:"id"`
	BankCode      string    `json:"bank_code"`
	BankName      string    `json:"bank_name"`
	AccountNumber string    `json:"account_number"`
	AccountName   string    `json:"account_name"`
	IsDefault     bool      `json:"is_default"`
	CreatedAt     time.Time `json:"created_at"`
}
