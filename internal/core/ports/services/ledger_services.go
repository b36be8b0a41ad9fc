package services

import (
	"context"

	"github.com/luminapay/railsync/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountBalance pairs an account with its recomputed balance.
type AccountBalance struct {
	Account domain.LedgerAccount `json:"account"`
	Balance decimal.Decimal      `json:"balance"`
}

// LedgerSvcFacade provides the double-entry ledger operations.
type LedgerSvcFacade interface {
	// ProvisionChart creates the organization's fixed chart of accounts: one
	// clearing account per rail plus the revenue account. Accounts that
	// already exist are left untouched, so re-provisioning is safe.
	ProvisionChart(ctx context.Context, organizationID, currencyCode string) error
	// RecordSettlement writes the payment's clearing-account debit and
	// revenue credit as one atomic pair. It no-ops when entries for the
	// payment already exist, so retries never duplicate postings.
	RecordSettlement(ctx context.Context, payment domain.Payment, event domain.PaymentEvent) error
	// ComputeBalance folds all of the account's entries under the
	// account-type sign convention. Pure with respect to stored entries.
	ComputeBalance(ctx context.Context, organizationID, accountCode string) (decimal.Decimal, error)
	ListBalances(ctx context.Context, organizationID string) ([]AccountBalance, error)
	// VerifyPaymentEntries checks the payment's entries balance within
	// tolerance, raising a data-integrity alert when they do not.
	VerifyPaymentEntries(ctx context.Context, paymentID string) error
}
