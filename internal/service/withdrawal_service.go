package service

import (
	"context"
	"fmt"
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
	"taxpadi-referral-be/pkg/monnify"
	pktNats "taxpadi-referral-be/pkg/nats"
)

const (
	payoutReferencePrefix = "TXP-WD-"

	compensateAttempts = 3
	compensateBackoff  = 500 * time.Millisecond
)

type IWithdrawalService interface {
	RequestWithdrawal(ctx context.Context, userId uuid.UUID, email string, req *dto.WithdrawalRequest) (*dto.WithdrawalResponse, error)
	GetWithdrawalsByUser(ctx context.Context, userId uuid.UUID, page, limit int) (*dto.WithdrawalListResponse, error)

	// StartReconciler periodically resolves withdrawals stuck in processing
	// by asking the gateway what actually happened. Blocks until ctx ends.
	StartReconciler(ctx context.Context)
}

type withdrawalService struct {
	uowFactory     unitofwork.RepositoryFactory
	logger         logger.ILogger
	gateway        PayoutGateway
	publisher      IPublisherService
	eventPublisher *pktNats.Publisher
	cfg            config.WithdrawalConfig
	pageCfg        config.ReferralConfig
}

func NewWithdrawalService(
	uowFactory unitofwork.RepositoryFactory,
	sysLogger logger.ILogger,
	gateway PayoutGateway,
	publisher IPublisherService,
	eventPublisher *pktNats.Publisher,
	cfg config.WithdrawalConfig,
	pageCfg config.ReferralConfig,
) IWithdrawalService {
	return &withdrawalService{
		uowFactory:     uowFactory,
		logger:         sysLogger,
		gateway:        gateway,
		publisher:      publisher,
		eventPublisher: eventPublisher,
		cfg:            cfg,
		pageCfg:        pageCfg,
	}
}

// audit publishes a best-effort event to NATS; failures are logged, never
// propagated, since the ledger state is already durable.
func (s *withdrawalService) audit(ctx context.Context, eventType string, withdrawal *entity.Withdrawal) {
	if s.eventPublisher == nil {
		return
	}
	now := time.Now()
	evt := events.BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"withdrawal_id": withdrawal.Id,
			"user_id":       withdrawal.UserId,
			"amount":        withdrawal.Amount,
			"status":        string(withdrawal.Status),
			"occurred_at":   now,
		},
		OccurredAt: now,
	}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("withdrawal", "failed to publish audit event", map[string]interface{}{
			"event":         eventType,
			"withdrawal_id": withdrawal.Id,
			"error":         err.Error(),
		})
	}
}

// RequestWithdrawal settles a withdrawal against the earning ledger and then
// disburses it. Everything that touches the ledger happens inside one
// transaction; the gateway is only called after that transaction commits, so
// a crashed or rejected payout can always be compensated from durable state.
func (s *withdrawalService) RequestWithdrawal(ctx context.Context, userId uuid.UUID, email string, req *dto.WithdrawalRequest) (*dto.WithdrawalResponse, error) {
	amount := round2(req.Amount)
	if amount < s.cfg.MinAmount {
		return nil, apperror.Validationf("minimum withdrawal amount is %.2f", s.cfg.MinAmount)
	}
	if s.cfg.MaxAmount > 0 && amount > s.cfg.MaxAmount {
		return nil, apperror.Validationf("maximum withdrawal amount is %.2f", s.cfg.MaxAmount)
	}
	accountNumber, err := normalizeAccountNumber(req.AccountNumber)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	saved, err := uow.BankDetailsRepository().FindOne(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return nil, apperror.Validation("no bank details on record; save your payout destination first")
	}
	if saved.BankCode != req.BankCode || saved.AccountNumber != accountNumber {
		return nil, apperror.Validation("withdrawal destination does not match your saved bank details")
	}

	available, err := uow.EarningRepository().SumCommissionByStatus(ctx, userId, entity.EarningStatusAvailable)
	if err != nil {
		return nil, err
	}
	if toKobo(available) < toKobo(amount) {
		return nil, apperror.InsufficientBalance(
			fmt.Sprintf("available balance %.2f is less than the requested %.2f", available, amount))
	}

	selected, err := s.selectEarningsFIFO(ctx, uow, userId, amount)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	withdrawal := &entity.Withdrawal{
		Id:            uuid.New(),
		UserId:        userId,
		Amount:        amount,
		BankCode:      saved.BankCode,
		BankName:      saved.BankName,
		AccountNumber: saved.AccountNumber,
		AccountName:   saved.AccountName,
		Status:        entity.WithdrawalStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uow.WithdrawalRepository().Create(ctx, withdrawal); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(selected))
	for i, e := range selected {
		ids[i] = e.Id
	}
	modified, err := uow.EarningRepository().MarkWithdrawn(ctx, ids, withdrawal.Id)
	if err != nil {
		return nil, err
	}
	if modified != int64(len(ids)) {
		// Another withdrawal claimed one of the selected earnings between
		// our read and this guarded update. Rolling back leaves the ledger
		// untouched; the client can simply retry.
		return nil, apperror.ConcurrencyConflict("your balance changed while processing, please retry")
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("withdrawal", "withdrawal settled against ledger", map[string]interface{}{
		"withdrawal_id": withdrawal.Id,
		"user_id":       userId,
		"amount":        amount,
		"earning_count": len(ids),
	})
	s.audit(ctx, "WITHDRAWAL_REQUESTED", withdrawal)

	return s.disburse(ctx, withdrawal, ids, email)
}

// selectEarningsFIFO walks available earnings oldest first, accumulating in
// integer kobo, until the running total reaches the requested amount. The
// total must land exactly on the amount: partial consumption of an earning
// is not supported, so an overshoot rejects the withdrawal even when the
// overall balance would cover it.
func (s *withdrawalService) selectEarningsFIFO(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, amount float64) ([]*entity.Earning, error) {
	remaining := toKobo(amount)
	var selected []*entity.Earning
	var cursor *entity.EarningCursor

	for remaining > 0 {
		batch, err := uow.EarningRepository().FindAvailableBatch(ctx, userId, cursor, s.cfg.SelectionBatchSize)
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			break
		}

		for _, e := range batch {
			if e.CreatedAt.IsZero() {
				s.logger.Error("withdrawal", "earning without createdAt encountered during FIFO walk", map[string]interface{}{
					"earning_id": e.Id,
					"user_id":    userId,
				})
				return nil, apperror.InternalInvariant("withdrawal selection failed, no funds were moved")
			}
			value := toKobo(e.CommissionAmount)
			if value > remaining {
				// Consuming this earning would overshoot; with whole-earning
				// settlement no later earning can fix that, so stop here.
				return nil, apperror.InsufficientBalance(
					"requested amount cannot be matched exactly by your earnings, try a different amount")
			}
			selected = append(selected, e)
			remaining -= value
			if remaining == 0 {
				break
			}
		}

		last := batch[len(batch)-1]
		cursor = &entity.EarningCursor{CreatedAt: last.CreatedAt, Id: last.Id}
	}

	if remaining > 0 {
		return nil, apperror.InsufficientBalance(
			"requested amount cannot be matched exactly by your earnings, try a different amount")
	}
	if remaining < 0 {
		s.logger.Error("withdrawal", "FIFO selection overshot the requested amount", map[string]interface{}{
			"user_id":        userId,
			"amount":         amount,
			"remaining_kobo": remaining,
		})
		return nil, apperror.InternalInvariant("withdrawal selection failed, no funds were moved")
	}
	return selected, nil
}

// disburse runs after the settlement transaction committed. Success moves
// the withdrawal to processing; any gateway failure triggers the
// compensating rollback that returns funds to the ledger.
func (s *withdrawalService) disburse(ctx context.Context, withdrawal *entity.Withdrawal, earningIds []uuid.UUID, email string) (*dto.WithdrawalResponse, error) {
	reference := payoutReferencePrefix + uuid.New().String()

	result, err := s.gateway.Disburse(ctx, monnify.DisbursementRequest{
		Amount:        withdrawal.Amount,
		Reference:     reference,
		Narration:     "TaxPadi referral withdrawal",
		BankCode:      withdrawal.BankCode,
		AccountNumber: withdrawal.AccountNumber,
		AccountName:   withdrawal.AccountName,
	})
	if err != nil || result.Status == monnify.StatusFailed || result.Status == monnify.StatusExpired {
		reason := "payout was rejected by the gateway"
		if err != nil {
			reason = err.Error()
		}
		s.compensate(ctx, withdrawal, reason)
		s.audit(ctx, "WITHDRAWAL_FAILED", withdrawal)
		s.notify(withdrawal, email, string(entity.WithdrawalStatusFailed), reason)
		return nil, apperror.ExternalGateway("withdrawal failed, funds have been returned to your balance", err)
	}

	withdrawal.Status = entity.WithdrawalStatusProcessing
	withdrawal.PayoutReference = &reference
	if err := s.setProcessing(ctx, withdrawal.Id, reference); err != nil {
		// The money is moving; the reconciler will catch up on status.
		s.logger.Error("withdrawal", "failed to record payout reference after disbursement", map[string]interface{}{
			"withdrawal_id":    withdrawal.Id,
			"payout_reference": reference,
			"error":            err.Error(),
		})
	}

	if result.Status == monnify.StatusSuccess {
		if err := s.setCompleted(ctx, withdrawal.Id); err == nil {
			withdrawal.Status = entity.WithdrawalStatusCompleted
			s.audit(ctx, "WITHDRAWAL_COMPLETED", withdrawal)
		}
	}

	s.notify(withdrawal, email, string(withdrawal.Status), "")

	resp := mapWithdrawal(withdrawal)
	resp.ConsumedEarningIds = earningIds
	return resp, nil
}

// compensate is the rollback arm of the saga: the settlement transaction
// already committed, so the failed payout is undone by a second transaction
// that reverts the consumed earnings and marks the withdrawal failed.
// Retried a few times since leaving funds locked is worse than a short wait.
func (s *withdrawalService) compensate(ctx context.Context, withdrawal *entity.Withdrawal, reason string) {
	var lastErr error
	for attempt := 1; attempt <= compensateAttempts; attempt++ {
		lastErr = s.compensateOnce(ctx, withdrawal, reason)
		if lastErr == nil {
			s.logger.Info("withdrawal", "failed payout compensated, earnings reverted", map[string]interface{}{
				"withdrawal_id": withdrawal.Id,
				"reason":        reason,
			})
			return
		}
		time.Sleep(compensateBackoff * time.Duration(attempt))
	}

	// Manual intervention territory: the withdrawal stays pending with its
	// earnings marked withdrawn until an operator (or a rerun) reverts them.
	s.logger.Error("withdrawal", "compensating rollback failed, ledger needs manual review", map[string]interface{}{
		"withdrawal_id": withdrawal.Id,
		"user_id":       withdrawal.UserId,
		"amount":        withdrawal.Amount,
		"error":         lastErr.Error(),
	})
}

func (s *withdrawalService) compensateOnce(ctx context.Context, withdrawal *entity.Withdrawal, reason string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if _, err := uow.EarningRepository().RevertToAvailable(ctx, withdrawal.Id); err != nil {
		return err
	}
	if err := uow.WithdrawalRepository().SetFailed(ctx, withdrawal.Id, reason); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	withdrawal.Status = entity.WithdrawalStatusFailed
	withdrawal.FailureReason = &reason
	return nil
}

func (s *withdrawalService) setProcessing(ctx context.Context, id uuid.UUID, reference string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()
	if err := uow.WithdrawalRepository().SetProcessing(ctx, id, reference); err != nil {
		return err
	}
	return uow.Commit()
}

func (s *withdrawalService) setCompleted(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()
	if err := uow.WithdrawalRepository().SetCompleted(ctx, id); err != nil {
		return err
	}
	return uow.Commit()
}

func (s *withdrawalService) notify(withdrawal *entity.Withdrawal, email, status, reason string) {
	if s.publisher == nil || email == "" {
		return
	}
	err := s.publisher.PublishWithdrawalNotification(&dto.WithdrawalNotification{
		WithdrawalId: withdrawal.Id,
		UserId:       withdrawal.UserId,
		Email:        email,
		Amount:       withdrawal.Amount,
		Status:       status,
		Reason:       reason,
	})
	if err != nil {
		s.logger.Warn("withdrawal", "failed to publish withdrawal notification", map[string]interface{}{
			"withdrawal_id": withdrawal.Id,
			"error":         err.Error(),
		})
	}
}

func (s *withdrawalService) GetWithdrawalsByUser(ctx context.Context, userId uuid.UUID, page, limit int) (*dto.WithdrawalListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = s.pageCfg.PageSizeDef
	}
	if limit < s.pageCfg.PageSizeMin {
		limit = s.pageCfg.PageSizeMin
	}
	if limit > s.pageCfg.PageSizeMax {
		limit = s.pageCfg.PageSizeMax
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	total, err := uow.WithdrawalRepository().Count(ctx,
		specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}

	withdrawals, err := uow.WithdrawalRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.WithdrawalResponse, len(withdrawals))
	for i, w := range withdrawals {
		items[i] = mapWithdrawal(w)
	}

	return &dto.WithdrawalListResponse{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

func (s *withdrawalService) StartReconciler(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.ReconcileInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.reconcileStuck(ctx)
		}
	}
}

// reconcileStuck resolves withdrawals that have been processing longer than
// the configured age by querying the gateway for the terminal status.
func (s *withdrawalService) reconcileStuck(ctx context.Context) {
	cutoff := time.Now().Add(-s.cfg.ReconcileStuckAge)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	stuck, err := uow.WithdrawalRepository().FindStuckProcessing(ctx, cutoff)
	if err != nil {
		s.logger.Error("withdrawal", "reconciler failed to list stuck withdrawals", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	for _, w := range stuck {
		if w.PayoutReference == nil {
			continue
		}
		status, err := s.gateway.DisbursementStatus(ctx, *w.PayoutReference)
		if err != nil {
			s.logger.Warn("withdrawal", "reconciler could not fetch disbursement status", map[string]interface{}{
				"withdrawal_id":    w.Id,
				"payout_reference": *w.PayoutReference,
				"error":            err.Error(),
			})
			continue
		}

		switch status {
		case monnify.StatusSuccess:
			if err := s.setCompleted(ctx, w.Id); err != nil {
				s.logger.Error("withdrawal", "reconciler failed to complete withdrawal", map[string]interface{}{
					"withdrawal_id": w.Id,
					"error":         err.Error(),
				})
				continue
			}
			s.logger.Info("withdrawal", "reconciler completed stuck withdrawal", map[string]interface{}{
				"withdrawal_id": w.Id,
			})
			w.Status = entity.WithdrawalStatusCompleted
			s.audit(ctx, "WITHDRAWAL_COMPLETED", w)
		case monnify.StatusFailed, monnify.StatusExpired:
			s.compensate(ctx, w, "payout "+status+" per gateway reconciliation")
			if w.Status == entity.WithdrawalStatusFailed {
				s.audit(ctx, "WITHDRAWAL_FAILED", w)
			}
		}
	}
}

func mapWithdrawal(w *entity.Withdrawal) *dto.WithdrawalResponse {
	return &dto.WithdrawalResponse{
		Id:              w.Id,
		Amount:          w.Amount,
		BankCode:        w.BankCode,
		BankName:        w.BankName,
		AccountNumber:   w.AccountNumber,
		AccountName:     w.AccountName,
		Status:          string(w.Status),
		PayoutReference: w.PayoutReference,
		FailureReason:   w.FailureReason,
		CreatedAt:       w.CreatedAt,
	}
}
