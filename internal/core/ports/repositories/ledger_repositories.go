package repositories

import (
	"context"

	"github.com/luminapay/railsync/internal/core/domain"
)

// LedgerRepositoryFacade provides append-only access to the double-entry ledger.
type LedgerRepositoryFacade interface {
	// SaveAccount inserts a chart-of-accounts row. An account with the same
	// (organization, code) already existing is a no-op, never an overwrite.
	SaveAccount(ctx context.Context, account domain.LedgerAccount) error
	// SaveEntryPair writes a payment's balanced entries inside a single
	// database transaction so a one-sided ledger state can never be observed.
	SaveEntryPair(ctx context.Context, entries []domain.LedgerEntry) error
	FindEntriesByAccountCode(ctx context.Context, organizationID, accountCode string) ([]domain.LedgerEntry, error)
	FindEntriesByPayment(ctx context.Context, paymentID string) ([]domain.LedgerEntry, error)
	// HasEntriesForPayment reports whether any ledger entries exist for the
	// payment. Used to guarantee entries are written at most once.
	HasEntriesForPayment(ctx context.Context, paymentID string) (bool, error)
	FindAccountByCode(ctx context.Context, organizationID, code string) (*domain.LedgerAccount, error)
	ListAccounts(ctx context.Context, organizationID string) ([]domain.LedgerAccount, error)
}
