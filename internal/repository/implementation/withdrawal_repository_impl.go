package implementation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taxpadi-referral-be/internal/entity"
	"taxpadi-referral-be/internal/mapper"
	"taxpadi-referral-be/internal/model"
	"taxpadi-referral-be/internal/repository/contract"
	"taxpadi-referral-be/internal/repository/specification"
)

type WithdrawalRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.WithdrawalMapper
}

func NewWithdrawalRepository(db *gorm.DB) contract.WithdrawalRepository {
	return &WithdrawalRepositoryImpl{
		db:     db,
		mapper: mapper.NewWithdrawalMapper(),
	}
}

func (r *WithdrawalRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *WithdrawalRepositoryImpl) Create(ctx context.Context, withdrawal *entity.Withdrawal) error {
	m := r.mapper.ToModel(withdrawal)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*withdrawal = *r.mapper.ToEntity(m)
	return nil
}

func (r *WithdrawalRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Withdrawal, error) {
	var m model.Withdrawal
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *WithdrawalRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Withdrawal, error) {
	var models []*model.Withdrawal
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Withdrawal, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *WithdrawalRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Withdrawal{}), specs...)
	err := query.Count(&count).Error
	return count, err
}

func (r *WithdrawalRepositoryImpl) SetProcessing(ctx context.Context, id uuid.UUID, payoutReference string) error {
	return r.db.WithContext(ctx).Model(&model.Withdrawal{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":           string(entity.WithdrawalStatusProcessing),
			"payout_reference": payoutReference,
		}).Error
}

func (r *WithdrawalRepositoryImpl) SetCompleted(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Withdrawal{}).
		Where("id = ?", id).
		Update("status", string(entity.WithdrawalStatusCompleted)).Error
}

func (r *WithdrawalRepositoryImpl) SetFailed(ctx context.Context, id uuid.UUID, reason string) error {
	return r.db.WithContext(ctx).Model(&model.Withdrawal{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         string(entity.WithdrawalStatusFailed),
			"failure_reason": reason,
		}).Error
}

func (r *WithdrawalRepositoryImpl) FindStuckProcessing(ctx context.Context, before time.Time) ([]*entity.Withdrawal, error) {
	var models []*model.Withdrawal
	err := r.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", string(entity.WithdrawalStatusProcessing), before).
		Order("updated_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	entities := make([]*entity.Withdrawal, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}
