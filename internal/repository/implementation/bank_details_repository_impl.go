package implementation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taxpadi-referral-be/internal/entity"
	"taxpadi-referral-be/internal/mapper"
	"taxpadi-referral-be/internal/model"
	"taxpadi-referral-be/internal/pkg/apperror"
	"taxpadi-referral-be/internal/repository/contract"
	"taxpadi-referral-be/internal/repository/specification"
)

type BankDetailsRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BankDetailsMapper
}

func NewBankDetailsRepository(db *gorm.DB) contract.BankDetailsRepository {
	return &BankDetailsRepositoryImpl{
		db:     db,
		mapper: mapper.NewBankDetailsMapper(),
	}
}

func (r *BankDetailsRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *BankDetailsRepositoryImpl) Create(ctx context.Context, details *entity.BankDetails) error {
	m := r.mapper.ToModel(details)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.Wrap(apperror.KindConflict, "account number is already registered by another user", err)
		}
		return err
	}
	*details = *r.mapper.ToEntity(m)
	return nil
}

func (r *BankDetailsRepositoryImpl) DeleteByUserId(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userId).Delete(&model.BankDetails{}).Error
}

func (r *BankDetailsRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.BankDetails, error) {
	var m model.BankDetails
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *BankDetailsRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.BankDetails, error) {
	var models []*model.BankDetails
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.BankDetails, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *BankDetailsRepositoryImpl) CountByAccountNumberForOtherUser(ctx context.Context, accountNumber string, userId uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.BankDetails{}).
		Where("account_number = ? AND user_id <> ?", accountNumber, userId).
		Count(&count).Error
	return count, err
}
