package mapper

import (
	"taxpadi-referral-be/internal/entity"
	"taxpadi-referral-be/internal/model"
)

type WithdrawalMapper struct{}

func NewWithdrawalMapper() *WithdrawalMapper {
	return &WithdrawalMapper{}
}

func (m *WithdrawalMapper) ToEntity(w *model.Withdrawal) *entity.Withdrawal {
	if w == nil {
		return nil
	}
	return &entity.Withdrawal{
		Id:              w.Id,
		UserId:          w.UserId,
		Amount:          w.Amount,
		BankCode:        w.BankCode,
		BankName:        w.BankName,
		AccountNumber:   w.AccountNumber,
		AccountName:     w.AccountName,
		Status:          entity.WithdrawalStatus(w.Status),
		PayoutReference: w.PayoutReference,
		FailureReason:   w.FailureReason,
		CreatedAt:       w.CreatedAt,
		UpdatedAt:       w.UpdatedAt,
	}
}

func (m *WithdrawalMapper) ToModel(w *entity.Withdrawal) *model.Withdrawal {
	if w == nil {
		return nil
	}
	return &model.Withdrawal{
		Id:              w.Id,
		UserId:          w.UserId,
		Amount:          w.Amount,
		BankCode:        w.BankCode,
		BankName:        w.BankName,
		AccountNumber:   w.AccountNumber,
		AccountName:     w.AccountName,
		Status:          string(w.Status),
		PayoutReference: w.PayoutReference,
		FailureReason:   w.FailureReason,
		CreatedAt:       w.CreatedAt,
		UpdatedAt:       w.UpdatedAt,
	}
}
