package dto

import (
	"time"

	"github.com/google/uuid"
)

// --- Referral Registry ---

type CreateReferralRequest struct {
	ReferrerId     uuid.UUID `json:"referrer_id" validate:"required"`
	ReferredUserId uuid.UUID `json:"referred_user_id" validate:"required"`
	ReferralCode   string    `json:"referral_code" validate:"required,min=4,max=50"`
}

type ReferralResponse struct {
	Id             uuid.UUID `json:"id"`
	ReferrerId     uuid.UUID `json:"referrer_id"`
	ReferredUserId uuid.UUID `json:"referred_user_id"`
	ReferralCode   string    `json:"referral_code"`
	CreatedAt      time.Time `json:"created_at"`
}

type ReferralStatsResponse struct {
	ReferredCount    int64   `json:"referred_count"`
	TotalEarned      float64 `json:"total_earned"`
	AvailableBalance float64 `json:"available_balance"`
	TotalWithdrawn   float64 `json:"total_withdrawn"`
}

// --- Earning Ledger ---

// CreateEarningRequest is posted by the payment collaborator once per
// successful subscription payment. Delivery is at-least-once; the ledger
// dedupes on payment_id.
type CreateEarningRequest struct {
	ReferrerId         uuid.UUID `json:"referrer_id" validate:"required"`
	ReferredUserId     uuid.UUID `json:"referred_user_id" validate:"required"`
	SubscriptionId     uuid.UUID `json:"subscription_id" validate:"required"`
	PaymentId          string    `json:"payment_id" validate:"required,max=100"`
	PlanName           string    `json:"plan_name" validate:"required,max=100"`
	SubscriptionAmount float64   `json:"subscription_amount" validate:"required,gt=0"`
}

type EarningResponse struct {
	Id                 uuid.UUID  `json:"id"`
	ReferredUserId     uuid.UUID  `json:"referred_user_id"`
	PaymentId          string     `json:"payment_id"`
	PlanName           string     `json:"plan_name"`
	SubscriptionAmount float64    `json:"subscription_amount"`
	CommissionRate     float64    `json:"commission_rate"`
	CommissionAmount   float64    `json:"commission_amount"`
	Status             string     `json:"status"`
	WithdrawalId       *uuid.UUID `json:"withdrawal_id,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

type EarningListResponse struct {
	Items []*EarningResponse `json:"items"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

type BalanceResponse struct {
	AvailableBalance float64 `json:"available_balance"`
	TotalWithdrawn   float64 `json:"total_withdrawn"`
}
