package contract

import (
	"context"

	"github.com/google/uuid"

	"taxpadi-referral-be/internal/entity"
	"taxpadi-referral-be/internal/repository/specification"
)

type EarningRepository interface {
	Create(ctx context.Context, earning *entity.Earning) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Earning, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Earning, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// SumCommissionByStatus aggregates server-side; balances are never
	// computed by loading rows into memory.
	SumCommissionByStatus(ctx context.Context, referrerId uuid.UUID, status entity.EarningStatus) (float64, error)

	// FindAvailableBatch returns up to limit available earnings for the
	// referrer, oldest first, strictly after the compound cursor.
	FindAvailableBatch(ctx context.Context, referrerId uuid.UUID, cursor *entity.EarningCursor, limit int) ([]*entity.Earning, error)

	// MarkWithdrawn sets status=withdrawn and the withdrawal ref on exactly
	// the given ids, guarded on status still being available. Returns the
	// number of rows actually modified; a short count means another
	// withdrawal claimed one of them first.
	MarkWithdrawn(ctx context.Context, ids []uuid.UUID, withdrawalId uuid.UUID) (int64, error)

	// RevertToAvailable is the compensating write: earnings consumed by the
	// withdrawal go back to available with the withdrawal ref cleared.
	RevertToAvailable(ctx context.Context, withdrawalId uuid.UUID) (int64, error)
}
