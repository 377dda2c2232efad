package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"taxpadi-referral-be/internal/dto"
	"taxpadi-referral-be/internal/entity"
	"taxpadi-referral-be/internal/pkg/apperror"
	"taxpadi-referral-be/internal/pkg/logger"
	"taxpadi-referral-be/internal/repository/specification"
	"taxpadi-referral-be/internal/repository/unitofwork"
)

type IBankDetailsService interface {
	SaveBankDetails(ctx context.Context, userId uuid.UUID, req *dto.SaveBankDetailsRequest) (*dto.BankDetailsResponse, error)
	GetUserBankDetails(ctx context.Context, userId uuid.UUID) (*dto.BankDetailsResponse, error)
}

type bankDetailsService struct {
	uowFactory    unitofwork.RepositoryFactory
	logger        logger.ILogger
	bankDirectory BankDirectory
}

func NewBankDetailsService(
	uowFactory unitofwork.RepositoryFactory,
	sysLogger logger.ILogger,
	bankDirectory BankDirectory,
) IBankDetailsService {
	return &bankDetailsService{
		uowFactory:    uowFactory,
		logger:        sysLogger,
		bankDirectory: bankDirectory,
	}
}

// SaveBankDetails replaces the user's payout destination atomically: delete
// whatever rows they had, insert the new one, all in one transaction. The
// user therefore always has at most one destination on record.
func (s *bankDetailsService) SaveBankDetails(ctx context.Context, userId uuid.UUID, req *dto.SaveBankDetailsRequest) (*dto.BankDetailsResponse, error) {
	accountNumber, err := normalizeAccountNumber(req.AccountNumber)
	if err != nil {
		return nil, err
	}

	if err := s.validateBankCode(ctx, req.BankCode); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	claimed, err := uow.BankDetailsRepository().CountByAccountNumberForOtherUser(ctx, accountNumber, userId)
	if err != nil {
		return nil, err
	}
	if claimed > 0 {
		return nil, apperror.Conflict("account number is already registered by another user")
	}

	if err := uow.BankDetailsRepository().DeleteByUserId(ctx, userId); err != nil {
		return nil, err
	}

	now := time.Now()
	details := &entity.BankDetails{
		Id:            uuid.New(),
		UserId:        userId,
		BankCode:      req.BankCode,
		BankName:      req.BankName,
		AccountNumber: accountNumber,
		AccountName:   strings.TrimSpace(req.AccountName),
		IsDefault:     true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := uow.BankDetailsRepository().Create(ctx, details); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("bank_details", "payout destination saved", map[string]interface{}{
		"user_id":   userId,
		"bank_code": details.BankCode,
	})

	return mapBankDetails(details), nil
}

// validateBankCode checks the code against the gateway's bank directory.
// A directory outage must not block users from saving details, so lookup
// failures degrade to a warning.
func (s *bankDetailsService) validateBankCode(ctx context.Context, bankCode string) error {
	if s.bankDirectory == nil {
		return nil
	}

	banks, err := s.bankDirectory.Banks(ctx)
	if err != nil {
		s.logger.Warn("bank_details", "bank directory unavailable, skipping bank code validation", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}

	for _, b := range banks {
		if b.Code == bankCode {
			return nil
		}
	}
	return apperror.Validationf("unknown bank code %q", bankCode)
}

func (s *bankDetailsService) GetUserBankDetails(ctx context.Context, userId uuid.UUID) (*dto.BankDetailsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	rows, err := uow.BankDetailsRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	if len(rows) > 1 {
		s.logger.Warn("bank_details", "user has multiple bank details rows, returning earliest", map[string]interface{}{
			"user_id": userId,
			"count":   len(rows),
		})
	}
	return mapBankDetails(rows[0]), nil
}

func mapBankDetails(d *entity.BankDetails) *dto.BankDetailsResponse {
	return &dto.BankDetailsResponse{
		Id:            d.Id,
		BankCode:      d.BankCode,
		BankName:      d.BankName,
		AccountNumber: d.AccountNumber,
		AccountName:   d.AccountName,
		IsDefault:     d.IsDefault,
		CreatedAt:     d.CreatedAt,
	}
}
