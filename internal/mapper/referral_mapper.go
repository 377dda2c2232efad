package mapper

import (
	"taxpadi-referral-be/internal/entity"
	"taxpadi-referral-be/internal/model"
)

type ReferralMapper struct{}

func NewReferralMapper() *ReferralMapper {
	return &ReferralMapper{}
}

func (m *ReferralMapper) ToEntity(r *model.Referral) *entity.Referral {
	if r == nil {
		return nil
	}
	return &entity.Referral{
		Id:             r.Id,
		ReferrerId:     r.ReferrerId,
		ReferredUserId: r.ReferredUserId,
		ReferralCode:   r.ReferralCode,
		CreatedAt:      r.CreatedAt,
	}
}

func (m *ReferralMapper) ToModel(r *entity.Referral) *model.Referral {
	if r == nil {
		return nil
	}
	return &model.Referral{
		Id:             r.Id,
		ReferrerId:     r.ReferrerId,
		ReferredUserId: r.ReferredUserId,
		ReferralCode:   r.ReferralCode,
		CreatedAt:      r.CreatedAt,
	}
}
