package implementation

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"taxpadi-referral-be/internal/entity"
	"taxpadi-referral-be/internal/mapper"
	"taxpadi-referral-be/internal/model"
	"taxpadi-referral-be/internal/pkg/apperror"
	"taxpadi-referral-be/internal/repository/contract"
	"taxpadi-referral-be/internal/repository/specification"
)

type ReferralRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ReferralMapper
}

func NewReferralRepository(db *gorm.DB) contract.ReferralRepository {
	return &ReferralRepositoryImpl{
		db:     db,
		mapper: mapper.NewReferralMapper(),
	}
}

func (r *ReferralRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ReferralRepositoryImpl) Create(ctx context.Context, referral *entity.Referral) error {
	m := r.mapper.ToModel(referral)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.Wrap(apperror.KindConflict, "referral already exists for this user", err)
		}
		return err
	}
	*referral = *r.mapper.ToEntity(m)
	return nil
}

func (r *ReferralRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Referral, error) {
	var m model.Referral
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ReferralRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Referral, error) {
	var models []*model.Referral
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Referral, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *ReferralRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Referral{}), specs...)
	err := query.Count(&count).Error
	return count, err
}
