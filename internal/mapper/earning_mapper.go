package mapper

import (
	"taxpadi-referral-be/internal/entity"
	"taxpadi-referral-be/internal/model"
)

type EarningMapper struct{}

func NewEarningMapper() *EarningMapper {
	return &EarningMapper{}
}

func (m *EarningMapper) ToEntity(e *model.Earning) *entity.Earning {
	if e == nil {
		return nil
	}
	return &entity.Earning{
		Id:                 e.Id,
		ReferrerId:         e.ReferrerId,
		ReferredUserId:     e.ReferredUserId,
		SubscriptionId:     e.SubscriptionId,
		PaymentId:          e.PaymentId,
		PlanName:           e.PlanName,
		SubscriptionAmount: e.SubscriptionAmount,
		CommissionRate:     e.CommissionRate,
		CommissionAmount:   e.CommissionAmount,
		Status:             entity.EarningStatus(e.Status),
		WithdrawalId:       e.WithdrawalId,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}

func (m *EarningMapper) ToModel(e *entity.Earning) *model.Earning {
	if e == nil {
		return nil
	}
	return &model.Earning{
		Id:                 e.Id,
		ReferrerId:         e.ReferrerId,
		ReferredUserId:     e.ReferredUserId,
		SubscriptionId:     e.SubscriptionId,
		PaymentId:          e.PaymentId,
		PlanName:           e.PlanName,
		SubscriptionAmount: e.SubscriptionAmount,
		CommissionRate:     e.CommissionRate,
		CommissionAmount:   e.CommissionAmount,
		Status:             string(e.Status),
		WithdrawalId:       e.WithdrawalId,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}
