package unitofwork

import (
	"context"

	"taxpadi-referral-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ReferralRepository() contract.ReferralRepository
	EarningRepository() contract.EarningRepository
	BankDetailsRepository() contract.BankDetailsRepository
	WithdrawalRepository() contract.WithdrawalRepository
}
