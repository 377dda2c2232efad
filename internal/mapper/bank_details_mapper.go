package mapper

import (
	"taxpadi-referral-be/internal/entity"
	"taxpadi-referral-be/internal/model"
)

type BankDetailsMapper struct{}

func NewBankDetailsMapper() *BankDetailsMapper {
	return &BankDetailsMapper{}
}

func (m *BankDetailsMapper) ToEntity(b *model.BankDetails) *entity.BankDetails {
	if b == nil {
		return nil
	}
	return &entity.BankDetails{
		Id:            b.Id,
		UserId:        b.UserId,
		BankCode:      b.BankCode,
		BankName:      b.BankName,
		AccountNumber: b.AccountNumber,
		AccountName:   b.AccountName,
		IsDefault:     b.IsDefault,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func (m *BankDetailsMapper) ToModel(b *entity.BankDetails) *model.BankDetails {
	if b == nil {
		return nil
	}
	return &model.BankDetails{
		Id:            b.Id,
		UserId:        b.UserId,
		BankCode:      b.BankCode,
		BankName:      b.BankName,
		AccountNumber: b.AccountNumber,
		AccountName:   b.AccountName,
		IsDefault:     b.IsDefault,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}
