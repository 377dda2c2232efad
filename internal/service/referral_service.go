package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"taxpadi-referral-be/internal/config"
	"taxpadi-referral-be/internal/dto"
	"taxpadi-referral-be/internal/entity"
	"taxpadi-referral-be/internal/pkg/apperror"
	"taxpadi-referral-be/internal/pkg/logger"
	"taxpadi-referral-be/internal/repository/specification"
	"taxpadi-referral-be/internal/repository/unitofwork"

	"taxpadi-referral-be/pkg/events"
	pktNats "taxpadi-referral-be/pkg/nats"
)

type IReferralService interface {
	CreateReferral(ctx context.Context, req *dto.CreateReferralRequest) (*dto.ReferralResponse, error)
	CreateEarning(ctx context.Context, req *dto.CreateEarningRequest) (*dto.EarningResponse, error)
	GetEarningsByReferrer(ctx context.Context, referrerId uuid.UUID, status string, page, limit int) (*dto.EarningListResponse, error)
	GetAvailableBalance(ctx context.Context, referrerId uuid.UUID) (*dto.BalanceResponse, error)
	GetReferralStats(ctx context.Context, referrerId uuid.UUID) (*dto.ReferralStatsResponse, error)
}

type referralService struct {
	uowFactory     unitofwork.RepositoryFactory
	logger         logger.ILogger
	eventPublisher *pktNats.Publisher
	cfg            config.ReferralConfig
}

func NewReferralService(
	uowFactory unitofwork.RepositoryFactory,
	sysLogger logger.ILogger,
	eventPublisher *pktNats.Publisher,
	cfg config.ReferralConfig,
) IReferralService {
	return &referralService{
		uowFactory:     uowFactory,
		logger:         sysLogger,
		eventPublisher: eventPublisher,
		cfg:            cfg,
	}
}

// CreateReferral registers who referred whom. The referred user can appear
// at most once; concurrent duplicate submissions from the signup flow are
// resolved by the in-transaction check and, as a final backstop, the unique
// index on referred_user_id.
func (s *referralService) CreateReferral(ctx context.Context, req *dto.CreateReferralRequest) (*dto.ReferralResponse, error) {
	if req.ReferrerId == req.ReferredUserId {
		return nil, apperror.Validation("you cannot refer yourself")
	}

	// Cheap pre-check outside the transaction short-circuits the common
	// duplicate; the in-transaction check and the unique index cover races.
	preExisting, err := s.uowFactory.NewUnitOfWork(ctx).ReferralRepository().FindOne(ctx,
		specification.Filter("referred_user_id", req.ReferredUserId))
	if err != nil {
		return nil, err
	}
	if preExisting != nil {
		return mapReferral(preExisting), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	existing, err := uow.ReferralRepository().FindOne(ctx,
		specification.Filter("referred_user_id", req.ReferredUserId))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return mapReferral(existing), nil
	}

	referral := &entity.Referral{
		Id:             uuid.New(),
		ReferrerId:     req.ReferrerId,
		ReferredUserId: req.ReferredUserId,
		ReferralCode:   req.ReferralCode,
		CreatedAt:      time.Now(),
	}

	if err := uow.ReferralRepository().Create(ctx, referral); err != nil {
		if apperror.IsKind(err, apperror.KindConflict) {
			return s.fetchExistingReferral(ctx, req.ReferredUserId, err)
		}
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		if apperror.IsKind(err, apperror.KindConflict) {
			return s.fetchExistingReferral(ctx, req.ReferredUserId, err)
		}
		return nil, err
	}

	s.logger.Info("referral", "referral relationship recorded", map[string]interface{}{
		"referrer_id":      referral.ReferrerId,
		"referred_user_id": referral.ReferredUserId,
		"referral_code":    referral.ReferralCode,
	})

	return mapReferral(referral), nil
}

// fetchExistingReferral resolves the duplicate-key race: another request
// created the relationship first, which is a success from the caller's view.
func (s *referralService) fetchExistingReferral(ctx context.Context, referredUserId uuid.UUID, cause error) (*dto.ReferralResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	existing, err := uow.ReferralRepository().FindOne(ctx,
		specification.Filter("referred_user_id", referredUserId))
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, cause
	}
	return mapReferral(existing), nil
}

// CreateEarning appends one commission entitlement per upstream payment.
// The payment collaborator delivers at-least-once; paymentId dedupes.
func (s *referralService) CreateEarning(ctx context.Context, req *dto.CreateEarningRequest) (*dto.EarningResponse, error) {
	if req.SubscriptionAmount <= 0 {
		return nil, apperror.Validation("subscription amount must be positive")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	existing, err := uow.EarningRepository().FindOne(ctx,
		specification.Filter("payment_id", req.PaymentId))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return mapEarning(existing), nil
	}

	now := time.Now()
	earning := &entity.Earning{
		Id:                 uuid.New(),
		ReferrerId:         req.ReferrerId,
		ReferredUserId:     req.ReferredUserId,
		SubscriptionId:     req.SubscriptionId,
		PaymentId:          req.PaymentId,
		PlanName:           req.PlanName,
		SubscriptionAmount: req.SubscriptionAmount,
		CommissionRate:     s.cfg.CommissionRate,
		CommissionAmount:   round2(req.SubscriptionAmount * s.cfg.CommissionRate),
		Status:             entity.EarningStatusAvailable,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := uow.EarningRepository().Create(ctx, earning); err != nil {
		if apperror.IsKind(err, apperror.KindConflict) {
			return s.fetchExistingEarning(ctx, req.PaymentId, err)
		}
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		if apperror.IsKind(err, apperror.KindConflict) {
			return s.fetchExistingEarning(ctx, req.PaymentId, err)
		}
		return nil, err
	}

	s.logger.Info("earning", "commission earning recorded", map[string]interface{}{
		"referrer_id":       earning.ReferrerId,
		"payment_id":        earning.PaymentId,
		"plan_name":         earning.PlanName,
		"commission_amount": earning.CommissionAmount,
	})

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: "EARNING_CREATED",
			Data: map[string]interface{}{
				"earning_id":        earning.Id,
				"referrer_id":       earning.ReferrerId,
				"plan_name":         earning.PlanName,
				"commission_amount": earning.CommissionAmount,
				"occurred_at":       now,
			},
			OccurredAt: now,
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("earning", "failed to publish EARNING_CREATED event", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return mapEarning(earning), nil
}

func (s *referralService) fetchExistingEarning(ctx context.Context, paymentId string, cause error) (*dto.EarningResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	existing, err := uow.EarningRepository().FindOne(ctx,
		specification.Filter("payment_id", paymentId))
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, cause
	}
	return mapEarning(existing), nil
}

func (s *referralService) GetEarningsByReferrer(ctx context.Context, referrerId uuid.UUID, status string, page, limit int) (*dto.EarningListResponse, error) {
	page, limit = s.clampPagination(page, limit)

	specs := []specification.Specification{
		specification.ReferrerOwnedBy{ReferrerID: referrerId},
	}
	if status != "" {
		switch entity.EarningStatus(status) {
		case entity.EarningStatusPending, entity.EarningStatusAvailable, entity.EarningStatusWithdrawn:
			specs = append(specs, specification.EarningStatusIs{Status: entity.EarningStatus(status)})
		default:
			return nil, apperror.Validationf("unknown earning status %q", status)
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	total, err := uow.EarningRepository().Count(ctx, specs...)
	if err != nil {
		return nil, err
	}

	listSpecs := append(specs,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	)
	earnings, err := uow.EarningRepository().FindAll(ctx, listSpecs...)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.EarningResponse, len(earnings))
	for i, e := range earnings {
		items[i] = mapEarning(e)
	}

	return &dto.EarningListResponse{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

func (s *referralService) GetAvailableBalance(ctx context.Context, referrerId uuid.UUID) (*dto.BalanceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	available, err := uow.EarningRepository().SumCommissionByStatus(ctx, referrerId, entity.EarningStatusAvailable)
	if err != nil {
		return nil, err
	}
	withdrawn, err := uow.EarningRepository().SumCommissionByStatus(ctx, referrerId, entity.EarningStatusWithdrawn)
	if err != nil {
		return nil, err
	}

	return &dto.BalanceResponse{
		AvailableBalance: available,
		TotalWithdrawn:   withdrawn,
	}, nil
}

func (s *referralService) GetReferralStats(ctx context.Context, referrerId uuid.UUID) (*dto.ReferralStatsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	referredCount, err := uow.ReferralRepository().Count(ctx,
		specification.Filter("referrer_id", referrerId))
	if err != nil {
		return nil, err
	}

	available, err := uow.EarningRepository().SumCommissionByStatus(ctx, referrerId, entity.EarningStatusAvailable)
	if err != nil {
		return nil, err
	}
	withdrawn, err := uow.EarningRepository().SumCommissionByStatus(ctx, referrerId, entity.EarningStatusWithdrawn)
	if err != nil {
		return nil, err
	}
	pending, err := uow.EarningRepository().SumCommissionByStatus(ctx, referrerId, entity.EarningStatusPending)
	if err != nil {
		return nil, err
	}

	return &dto.ReferralStatsResponse{
		ReferredCount:    referredCount,
		TotalEarned:      round2(available + withdrawn + pending),
		AvailableBalance: available,
		TotalWithdrawn:   withdrawn,
	}, nil
}

// clampPagination bounds client-supplied paging regardless of input.
func (s *referralService) clampPagination(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = s.cfg.PageSizeDef
	}
	if limit < s.cfg.PageSizeMin {
		limit = s.cfg.PageSizeMin
	}
	if limit > s.cfg.PageSizeMax {
		limit = s.cfg.PageSizeMax
	}
	return page, limit
}

func mapReferral(r *entity.Referral) *dto.ReferralResponse {
	return &dto.ReferralResponse{
		Id:             r.Id,
		ReferrerId:     r.ReferrerId,
		ReferredUserId: r.ReferredUserId,
		ReferralCode:   r.ReferralCode,
		CreatedAt:      r.CreatedAt,
	}
}

func mapEarning(e *entity.Earning) *dto.EarningResponse {
	return &dto.EarningResponse{
		Id:                 e.Id,
		ReferredUserId:     e.ReferredUserId,
		PaymentId:          e.PaymentId,
		PlanName:           e.PlanName,
		SubscriptionAmount: e.SubscriptionAmount,
		CommissionRate:     e.CommissionRate,
		CommissionAmount:   e.CommissionAmount,
		Status:             string(e.Status),
		WithdrawalId:       e.WithdrawalId,
		CreatedAt:          e.CreatedAt,
	}
}
