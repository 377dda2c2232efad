package service

import (
	"context"

	"taxpadi-referral-be/pkg/monnify"
)

// PayoutGateway is the slice of the Monnify client the settlement engine
// needs. Injected so tests can fail the disbursement on demand.
type PayoutGateway interface {
	Disburse(ctx context.Context, req monnify.DisbursementRequest) (*monnify.DisbursementResult, error)
	DisbursementStatus(ctx context.Context, reference string) (string, error)
}

// BankDirectory resolves bank codes against the gateway's bank list.
type BankDirectory interface {
	Banks(ctx context.Context) ([]monnify.Bank, error)
}
