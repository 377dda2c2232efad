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

type EarningRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.EarningMapper
}

func NewEarningRepository(db *gorm.DB) contract.EarningRepository {
	return &EarningRepositoryImpl{
		db:     db,
		mapper: mapper.NewEarningMapper(),
	}
}

func (r *EarningRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *EarningRepositoryImpl) Create(ctx context.Context, earning *entity.Earning) error {
	m := r.mapper.ToModel(earning)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.Wrap(apperror.KindConflict, "earning already exists for this payment", err)
		}
		return err
	}
	*earning = *r.mapper.ToEntity(m)
	return nil
}

func (r *EarningRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Earning, error) {
	var m model.Earning
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *EarningRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Earning, error) {
	var models []*model.Earning
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Earning, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *EarningRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Earning{}), specs...)
	err := query.Count(&count).Error
	return count, err
}

func (r *EarningRepositoryImpl) SumCommissionByStatus(ctx context.Context, referrerId uuid.UUID, status entity.EarningStatus) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&model.Earning{}).
		Where("referrer_id = ? AND status = ?", referrerId, string(status)).
		Select("COALESCE(SUM(commission_amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *EarningRepositoryImpl) FindAvailableBatch(ctx context.Context, referrerId uuid.UUID, cursor *entity.EarningCursor, limit int) ([]*entity.Earning, error) {
	return r.FindAll(ctx,
		specification.ReferrerOwnedBy{ReferrerID: referrerId},
		specification.EarningStatusIs{Status: entity.EarningStatusAvailable},
		specification.AfterCursor{Cursor: cursor},
		specification.FIFOOrder{},
		specification.Pagination{Limit: limit},
	)
}

func (r *EarningRepositoryImpl) MarkWithdrawn(ctx context.Context, ids []uuid.UUID, withdrawalId uuid.UUID) (int64, error) {
	// Guarded conditional update: rows that are no longer available are
	// simply not matched, and the caller compares RowsAffected to len(ids).
	res := r.db.WithContext(ctx).Model(&model.Earning{}).
		Where("id IN ? AND status = ?", ids, string(entity.EarningStatusAvailable)).
		Updates(map[string]interface{}{
			"status":        string(entity.EarningStatusWithdrawn),
			"withdrawal_id": withdrawalId,
		})
	return res.RowsAffected, res.Error
}

func (r *EarningRepositoryImpl) RevertToAvailable(ctx context.Context, withdrawalId uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Earning{}).
		Where("withdrawal_id = ? AND status = ?", withdrawalId, string(entity.EarningStatusWithdrawn)).
		Updates(map[string]interface{}{
			"status":        string(entity.EarningStatusAvailable),
			"withdrawal_id": nil,
		})
	return res.RowsAffected, res.Error
}
