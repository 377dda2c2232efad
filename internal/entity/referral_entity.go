package entity

import (
	"time"

	"github.com/google/uuid"
)

// Referral records who referred whom. A user can be referred at most once;
// the row is created at signup time and never mutated.
type Referral struct {
	Id             uuid.UUID
	ReferrerId     uuid.UUID
	ReferredUserId uuid.UUID
	ReferralCode   string
	CreatedAt      time.Time
}

// ReferralStats aggregates a referrer's position.
type ReferralStats struct {
	ReferredCount    int64
	TotalEarned      float64
	AvailableBalance float64
	TotalWithdrawn   float64
}
