package contract

import (
	"context"

	"taxpadi-referral-be/internal/entity"
	"taxpadi-referral-be/internal/repository/specification"
)

type ReferralRepository interface {
	Create(ctx context.Context, referral *entity.Referral) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Referral, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Referral, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
