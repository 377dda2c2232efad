package entity

import (
	"time"

	"github.com/google/uuid"
)

type EarningStatus string

const (
	EarningStatusPending   EarningStatus = "pending"
	EarningStatusAvailable EarningStatus = "available"
	EarningStatusWithdrawn EarningStatus = "withdrawn"
)

// Earning is one commission entitlement, created exactly once per upstream
// payment (PaymentId is the idempotency key). Its status only moves
// available -> withdrawn through settlement; the reverse transition exists
// solely as the compensating rollback after a failed payout.
type Earning struct {
	Id                 uuid.UUID
	ReferrerId         uuid.UUID
	ReferredUserId     uuid.UUID
	SubscriptionId     uuid.UUID
	PaymentId          string
	PlanName           string
	SubscriptionAmount float64
	CommissionRate     float64
	CommissionAmount   float64
	Status             EarningStatus
	WithdrawalId       *uuid.UUID
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// EarningCursor is the compound FIFO cursor. Ordering by (CreatedAt, Id)
// keeps the walk total even when timestamps collide.
type EarningCursor struct {
	CreatedAt time.Time
	Id        uuid.UUID
}
