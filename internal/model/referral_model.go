package model

import (
	"time"

	"github.com/google/uuid"
)

type Referral struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ReferrerId     uuid.UUID `gorm:"type:uuid;not null;index"`
	ReferredUserId uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	ReferralCode   string    `gorm:"type:varchar(50);not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

func (Referral) TableName() string {
	return "referrals"
}
