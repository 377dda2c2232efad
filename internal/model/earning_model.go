package model

import (
	"time"

	"github.com/google/uuid"
)

// Earning rows carry two load-bearing indexes: the unique index on
// payment_id (idempotency) and the composite (referrer_id, status,
// created_at, id) index that backs both the balance aggregation and the
// FIFO cursor walk.
type Earning struct {
	Id                 uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ReferrerId         uuid.UUID  `gorm:"type:uuid;not null;index:idx_earnings_fifo,priority:1"`
	ReferredUserId     uuid.UUID  `gorm:"type:uuid;not null"`
	SubscriptionId     uuid.UUID  `gorm:"type:uuid;not null"`
	PaymentId          string     `gorm:"type:varchar(100);not null;uniqueIndex"`
	PlanName           string     `gorm:"type:varchar(100);not null"`
	SubscriptionAmount float64    `gorm:"type:numeric(14,2);not null"`
	CommissionRate     float64    `gorm:"type:numeric(6,4);not null"`
	CommissionAmount   float64    `gorm:"type:numeric(14,2);not null"`
	Status             string     `gorm:"type:varchar(20);not null;index:idx_earnings_fifo,priority:2"`
	WithdrawalId       *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt          time.Time  `gorm:"autoCreateTime;index:idx_earnings_fifo,priority:3"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime"`
}

func (Earning) TableName() string {
	return "earnings"
}
