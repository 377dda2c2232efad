package contract

import (
	"context"
	"time"

	"github.com/google/uuid"

	"taxpadi-referral-be/internal/entity"
	"taxpadi-referral-be/internal/repository/specification"
)

type WithdrawalRepository interface {
	Create(ctx context.Context, withdrawal *entity.Withdrawal) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Withdrawal, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Withdrawal, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// SetProcessing records the accepted payout reference.
	SetProcessing(ctx context.Context, id uuid.UUID, payoutReference string) error

	// SetCompleted marks a processing withdrawal as paid out.
	SetCompleted(ctx context.Context, id uuid.UUID) error

	// SetFailed records the failure reason alongside the status change.
	SetFailed(ctx context.Context, id uuid.UUID, reason string) error

	// FindStuckProcessing returns withdrawals that have sat in processing
	// since before the cutoff; input to the reconciliation sweep.
	FindStuckProcessing(ctx context.Context, before time.Time) ([]*entity.Withdrawal, error)
}
