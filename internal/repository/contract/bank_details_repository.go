package contract

import (
	"context"

	"github.com/google/uuid"

	"taxpadi-referral-be/internal/entity"
	"taxpadi-referral-be/internal/repository/specification"
)

type BankDetailsRepository interface {
	Create(ctx context.Context, details *entity.BankDetails) error
	DeleteByUserId(ctx context.Context, userId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.BankDetails, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.BankDetails, error)

	// CountByAccountNumberForOtherUser reports how many rows claim the
	// account number for a user other than userId.
	CountByAccountNumberForOtherUser(ctx context.Context, accountNumber string, userId uuid.UUID) (int64, error)
}
