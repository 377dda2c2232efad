package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"taxpadi-referral-be/internal/dto"
	"taxpadi-referral-be/internal/entity"
	"taxpadi-referral-be/internal/pkg/apperror"
	"taxpadi-referral-be/internal/repository/contract"
	"taxpadi-referral-be/internal/repository/specification"
	"taxpadi-referral-be/internal/repository/unitofwork"
	"taxpadi-referral-be/pkg/monnify"
)

// In-memory doubles for the repository layer. The fakes interpret the same
// specification values the gorm implementations apply, so service logic is
// exercised against realistic filtering and ordering.

type fakeStore struct {
	referrals   []*entity.Referral
	earnings    []*entity.Earning
	bankDetails []*entity.BankDetails
	withdrawals []*entity.Withdrawal

	// When set, MarkWithdrawn reports one row fewer than requested without
	// touching the store, simulating a concurrent withdrawal winning the
	// guarded update.
	shortMarkWithdrawn bool
}

type fakeUowFactory struct {
	store *fakeStore
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{store: f.store}
}

type fakeUow struct {
	store *fakeStore
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) ReferralRepository() contract.ReferralRepository {
	return &fakeReferralRepo{store: u.store}
}
func (u *fakeUow) EarningRepository() contract.EarningRepository {
	return &fakeEarningRepo{store: u.store}
}
func (u *fakeUow) BankDetailsRepository() contract.BankDetailsRepository {
	return &fakeBankDetailsRepo{store: u.store}
}
func (u *fakeUow) WithdrawalRepository() contract.WithdrawalRepository {
	return &fakeWithdrawalRepo{store: u.store}
}

// --- spec interpretation helpers ---

type rowFields interface {
	field(name string) interface{}
}

func matches(specs []specification.Specification, f rowFields) bool {
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.FilterBy:
			if f.field(sp.Field) != sp.Value {
				return false
			}
		case specification.UserOwnedBy:
			if f.field("user_id") != sp.UserID {
				return false
			}
		case specification.ReferrerOwnedBy:
			if f.field("referrer_id") != sp.ReferrerID {
				return false
			}
		case specification.EarningStatusIs:
			if f.field("status") != string(sp.Status) {
				return false
			}
		}
	}
	return true
}

func orderAndPage[T rowFields](specs []specification.Specification, rows []T) []T {
	out := append([]T(nil), rows...)
	for _, s := range specs {
		if ob, ok := s.(specification.OrderBy); ok && ob.Field == "created_at" {
			sort.SliceStable(out, func(i, j int) bool {
				ti := out[i].field("created_at").(time.Time)
				tj := out[j].field("created_at").(time.Time)
				if ob.Desc {
					return ti.After(tj)
				}
				return ti.Before(tj)
			})
		}
	}
	for _, s := range specs {
		if pg, ok := s.(specification.Pagination); ok {
			if pg.Offset >= len(out) {
				return nil
			}
			out = out[pg.Offset:]
			if pg.Limit < len(out) {
				out = out[:pg.Limit]
			}
		}
	}
	return out
}

// --- referral repo ---

type referralRow struct{ *entity.Referral }

func (r referralRow) field(name string) interface{} {
	switch name {
	case "referrer_id":
		return r.ReferrerId
	case "referred_user_id":
		return r.ReferredUserId
	case "created_at":
		return r.CreatedAt
	default:
		return nil
	}
}

type fakeReferralRepo struct {
	store *fakeStore
}

func (r *fakeReferralRepo) Create(ctx context.Context, referral *entity.Referral) error {
	for _, existing := range r.store.referrals {
		if existing.ReferredUserId == referral.ReferredUserId {
			return apperror.Wrap(apperror.KindConflict, "referral already exists for this user", errors.New("duplicated key"))
		}
	}
	r.store.referrals = append(r.store.referrals, referral)
	return nil
}

func (r *fakeReferralRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Referral, error) {
	for _, row := range r.store.referrals {
		if matches(specs, referralRow{row}) {
			return row, nil
		}
	}
	return nil, nil
}

func (r *fakeReferralRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Referral, error) {
	var rows []referralRow
	for _, row := range r.store.referrals {
		if matches(specs, referralRow{row}) {
			rows = append(rows, referralRow{row})
		}
	}
	out := make([]*entity.Referral, 0, len(rows))
	for _, row := range orderAndPage(specs, rows) {
		out = append(out, row.Referral)
	}
	return out, nil
}

func (r *fakeReferralRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var n int64
	for _, row := range r.store.referrals {
		if matches(specs, referralRow{row}) {
			n++
		}
	}
	return n, nil
}

// --- earning repo ---

type earningRow struct{ *entity.Earning }

func (r earningRow) field(name string) interface{} {
	switch name {
	case "referrer_id":
		return r.ReferrerId
	case "payment_id":
		return r.PaymentId
	case "status":
		return string(r.Status)
	case "created_at":
		return r.CreatedAt
	default:
		return nil
	}
}

type fakeEarningRepo struct {
	store *fakeStore
}

func (r *fakeEarningRepo) Create(ctx context.Context, earning *entity.Earning) error {
	for _, existing := range r.store.earnings {
		if existing.PaymentId == earning.PaymentId {
			return apperror.Wrap(apperror.KindConflict, "earning already exists for this payment", errors.New("duplicated key"))
		}
	}
	r.store.earnings = append(r.store.earnings, earning)
	return nil
}

func (r *fakeEarningRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Earning, error) {
	for _, row := range r.store.earnings {
		if matches(specs, earningRow{row}) {
			return row, nil
		}
	}
	return nil, nil
}

func (r *fakeEarningRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Earning, error) {
	var rows []earningRow
	for _, row := range r.store.earnings {
		if matches(specs, earningRow{row}) {
			rows = append(rows, earningRow{row})
		}
	}
	out := make([]*entity.Earning, 0, len(rows))
	for _, row := range orderAndPage(specs, rows) {
		out = append(out, row.Earning)
	}
	return out, nil
}

func (r *fakeEarningRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var n int64
	for _, row := range r.store.earnings {
		if matches(specs, earningRow{row}) {
			n++
		}
	}
	return n, nil
}

func (r *fakeEarningRepo) SumCommissionByStatus(ctx context.Context, referrerId uuid.UUID, status entity.EarningStatus) (float64, error) {
	var sum float64
	for _, e := range r.store.earnings {
		if e.ReferrerId == referrerId && e.Status == status {
			sum += e.CommissionAmount
		}
	}
	return sum, nil
}

func (r *fakeEarningRepo) FindAvailableBatch(ctx context.Context, referrerId uuid.UUID, cursor *entity.EarningCursor, limit int) ([]*entity.Earning, error) {
	var batch []*entity.Earning
	for _, e := range r.store.earnings {
		if e.ReferrerId != referrerId || e.Status != entity.EarningStatusAvailable {
			continue
		}
		if cursor != nil {
			after := e.CreatedAt.After(cursor.CreatedAt) ||
				(e.CreatedAt.Equal(cursor.CreatedAt) && e.Id.String() > cursor.Id.String())
			if !after {
				continue
			}
		}
		batch = append(batch, e)
	}
	sort.SliceStable(batch, func(i, j int) bool {
		if !batch[i].CreatedAt.Equal(batch[j].CreatedAt) {
			return batch[i].CreatedAt.Before(batch[j].CreatedAt)
		}
		return batch[i].Id.String() < batch[j].Id.String()
	})
	if limit < len(batch) {
		batch = batch[:limit]
	}
	return batch, nil
}

func (r *fakeEarningRepo) MarkWithdrawn(ctx context.Context, ids []uuid.UUID, withdrawalId uuid.UUID) (int64, error) {
	if r.store.shortMarkWithdrawn {
		return int64(len(ids)) - 1, nil
	}
	idSet := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}
	var n int64
	for _, e := range r.store.earnings {
		if idSet[e.Id] && e.Status == entity.EarningStatusAvailable {
			e.Status = entity.EarningStatusWithdrawn
			wid := withdrawalId
			e.WithdrawalId = &wid
			n++
		}
	}
	return n, nil
}

func (r *fakeEarningRepo) RevertToAvailable(ctx context.Context, withdrawalId uuid.UUID) (int64, error) {
	var n int64
	for _, e := range r.store.earnings {
		if e.WithdrawalId != nil && *e.WithdrawalId == withdrawalId && e.Status == entity.EarningStatusWithdrawn {
			e.Status = entity.EarningStatusAvailable
			e.WithdrawalId = nil
			n++
		}
	}
	return n, nil
}

// --- bank details repo ---

type bankDetailsRow struct{ *entity.BankDetails }

func (r bankDetailsRow) field(name string) interface{} {
	switch name {
	case "user_id":
		return r.UserId
	case "account_number":
		return r.AccountNumber
	case "created_at":
		return r.CreatedAt
	default:
		return nil
	}
}

type fakeBankDetailsRepo struct {
	store *fakeStore
}

func (r *fakeBankDetailsRepo) Create(ctx context.Context, details *entity.BankDetails) error {
	for _, existing := range r.store.bankDetails {
		if existing.AccountNumber == details.AccountNumber && existing.UserId != details.UserId {
			return apperror.Wrap(apperror.KindConflict, "account number is already registered by another user", errors.New("duplicated key"))
		}
	}
	r.store.bankDetails = append(r.store.bankDetails, details)
	return nil
}

func (r *fakeBankDetailsRepo) DeleteByUserId(ctx context.Context, userId uuid.UUID) error {
	kept := r.store.bankDetails[:0]
	for _, d := range r.store.bankDetails {
		if d.UserId != userId {
			kept = append(kept, d)
		}
	}
	r.store.bankDetails = kept
	return nil
}

func (r *fakeBankDetailsRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.BankDetails, error) {
	var rows []bankDetailsRow
	for _, row := range r.store.bankDetails {
		if matches(specs, bankDetailsRow{row}) {
			rows = append(rows, bankDetailsRow{row})
		}
	}
	ordered := orderAndPage(specs, rows)
	if len(ordered) == 0 {
		return nil, nil
	}
	return ordered[0].BankDetails, nil
}

func (r *fakeBankDetailsRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.BankDetails, error) {
	var rows []bankDetailsRow
	for _, row := range r.store.bankDetails {
		if matches(specs, bankDetailsRow{row}) {
			rows = append(rows, bankDetailsRow{row})
		}
	}
	out := make([]*entity.BankDetails, 0, len(rows))
	for _, row := range orderAndPage(specs, rows) {
		out = append(out, row.BankDetails)
	}
	return out, nil
}

func (r *fakeBankDetailsRepo) CountByAccountNumberForOtherUser(ctx context.Context, accountNumber string, userId uuid.UUID) (int64, error) {
	var n int64
	for _, d := range r.store.bankDetails {
		if d.AccountNumber == accountNumber && d.UserId != userId {
			n++
		}
	}
	return n, nil
}

// --- withdrawal repo ---

type withdrawalRow struct{ *entity.Withdrawal }

func (r withdrawalRow) field(name string) interface{} {
	switch name {
	case "user_id":
		return r.UserId
	case "created_at":
		return r.CreatedAt
	default:
		return nil
	}
}

type fakeWithdrawalRepo struct {
	store *fakeStore
}

func (r *fakeWithdrawalRepo) Create(ctx context.Context, withdrawal *entity.Withdrawal) error {
	r.store.withdrawals = append(r.store.withdrawals, withdrawal)
	return nil
}

func (r *fakeWithdrawalRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Withdrawal, error) {
	for _, row := range r.store.withdrawals {
		if matches(specs, withdrawalRow{row}) {
			return row, nil
		}
	}
	return nil, nil
}

func (r *fakeWithdrawalRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Withdrawal, error) {
	var rows []withdrawalRow
	for _, row := range r.store.withdrawals {
		if matches(specs, withdrawalRow{row}) {
			rows = append(rows, withdrawalRow{row})
		}
	}
	out := make([]*entity.Withdrawal, 0, len(rows))
	for _, row := range orderAndPage(specs, rows) {
		out = append(out, row.Withdrawal)
	}
	return out, nil
}

func (r *fakeWithdrawalRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var n int64
	for _, row := range r.store.withdrawals {
		if matches(specs, withdrawalRow{row}) {
			n++
		}
	}
	return n, nil
}

func (r *fakeWithdrawalRepo) find(id uuid.UUID) *entity.Withdrawal {
	for _, w := range r.store.withdrawals {
		if w.Id == id {
			return w
		}
	}
	return nil
}

func (r *fakeWithdrawalRepo) SetProcessing(ctx context.Context, id uuid.UUID, payoutReference string) error {
	w := r.find(id)
	if w == nil {
		return errors.New("withdrawal not found")
	}
	w.Status = entity.WithdrawalStatusProcessing
	ref := payoutReference
	w.PayoutReference = &ref
	return nil
}

func (r *fakeWithdrawalRepo) SetCompleted(ctx context.Context, id uuid.UUID) error {
	w := r.find(id)
	if w == nil {
		return errors.New("withdrawal not found")
	}
	w.Status = entity.WithdrawalStatusCompleted
	return nil
}

func (r *fakeWithdrawalRepo) SetFailed(ctx context.Context, id uuid.UUID, reason string) error {
	w := r.find(id)
	if w == nil {
		return errors.New("withdrawal not found")
	}
	w.Status = entity.WithdrawalStatusFailed
	msg := reason
	w.FailureReason = &msg
	return nil
}

func (r *fakeWithdrawalRepo) FindStuckProcessing(ctx context.Context, before time.Time) ([]*entity.Withdrawal, error) {
	var out []*entity.Withdrawal
	for _, w := range r.store.withdrawals {
		if w.Status == entity.WithdrawalStatusProcessing && w.UpdatedAt.Before(before) {
			out = append(out, w)
		}
	}
	return out, nil
}

// --- collaborator doubles ---

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type fakeGateway struct {
	disburseStatus string
	disburseErr    error
	statusByRef    map[string]string

	disburseCalls []monnify.DisbursementRequest
}

func (g *fakeGateway) Disburse(ctx context.Context, req monnify.DisbursementRequest) (*monnify.DisbursementResult, error) {
	g.disburseCalls = append(g.disburseCalls, req)
	if g.disburseErr != nil {
		return nil, g.disburseErr
	}
	return &monnify.DisbursementResult{Reference: req.Reference, Status: g.disburseStatus}, nil
}

func (g *fakeGateway) DisbursementStatus(ctx context.Context, reference string) (string, error) {
	if status, ok := g.statusByRef[reference]; ok {
		return status, nil
	}
	return monnify.StatusPending, nil
}

type fakeBankDirectory struct {
	banks []monnify.Bank
	err   error
}

func (d *fakeBankDirectory) Banks(ctx context.Context) ([]monnify.Bank, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.banks, nil
}

type recordingPublisher struct {
	notifications []dto.WithdrawalNotification
	err           error
}

func (p *recordingPublisher) PublishWithdrawalNotification(n *dto.WithdrawalNotification) error {
	if p.err != nil {
		return p.err
	}
	p.notifications = append(p.notifications, *n)
	return nil
}
