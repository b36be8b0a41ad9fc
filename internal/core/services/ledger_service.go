package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/luminapay/railsync/internal/apperrors"
	"github.com/luminapay/railsync/internal/core/domain"
	portsrepo "github.com/luminapay/railsync/internal/core/ports/repositories"
	portssvc "github.com/luminapay/railsync/internal/core/ports/services"
	"github.com/luminapay/railsync/internal/middleware"
	"github.com/luminapay/railsync/internal/platform/metrics"
	"github.com/luminapay/railsync/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// ledgerService owns the append-only double-entry ledger. Settlement postings
// debit the rail's clearing account and credit revenue as one atomic pair.
type ledgerService struct {
	ledgerRepo portsrepo.LedgerRepositoryFacade
	tolerance  decimal.Decimal
}

// NewLedgerService creates a new LedgerService with the balance tolerance used
// for the per-payment integrity check.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade, tolerance decimal.Decimal) portssvc.LedgerSvcFacade {
	return &ledgerService{ledgerRepo: ledgerRepo, tolerance: tolerance}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// ProvisionChart creates the organization's fixed chart: the per-rail clearing
// accounts as assets and the revenue account. Existing rows are never
// modified, so every settlement posting target exists before the first sync.
func (s *ledgerService) ProvisionChart(ctx context.Context, organizationID, currencyCode string) error {
	now := time.Now()
	accounts := make([]domain.LedgerAccount, 0, len(domain.AllRails())+1)
	for _, rail := range domain.AllRails() {
		accounts = append(accounts, domain.LedgerAccount{
			AccountID:      uuid.NewString(),
			OrganizationID: organizationID,
			Code:           rail.ClearingAccountCode(),
			Name:           fmt.Sprintf("%s clearing", rail),
			AccountType:    domain.Asset,
			CurrencyCode:   currencyCode,
			AuditFields:    domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
		})
	}
	accounts = append(accounts, domain.LedgerAccount{
		AccountID:      uuid.NewString(),
		OrganizationID: organizationID,
		Code:           domain.RevenueAccountCode,
		Name:           "Sales revenue",
		AccountType:    domain.Revenue,
		CurrencyCode:   currencyCode,
		AuditFields:    domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	})

	for _, account := range accounts {
		if err := s.ledgerRepo.SaveAccount(ctx, account); err != nil {
			return fmt.Errorf("failed to provision ledger account %s: %w", account.Code, err)
		}
	}

	middleware.GetLoggerFromCtx(ctx).Info("chart of accounts provisioned",
		slog.String("organization_id", organizationID),
		slog.Int("accounts", len(accounts)))
	return nil
}

// RecordSettlement writes the payment's debit/credit pair. Entries for a
// payment are created exactly once: retried syncs find the existing rows and
// no-op here.
func (s *ledgerService) RecordSettlement(ctx context.Context, payment domain.Payment, event domain.PaymentEvent) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	exists, err := s.ledgerRepo.HasEntriesForPayment(ctx, payment.PaymentID)
	if err != nil {
		return fmt.Errorf("failed to check existing ledger entries for payment %s: %w", payment.PaymentID, err)
	}
	if exists {
		logger.Info("ledger entries already recorded, skipping",
			slog.String("payment_id", payment.PaymentID))
		return nil
	}

	if !event.Rail.IsValid() {
		return fmt.Errorf("%w: unknown rail '%s' on event %s", apperrors.ErrValidation, event.Rail, event.EventID)
	}

	now := time.Now()
	entries := []domain.LedgerEntry{
		{
			EntryID:      uuid.NewString(),
			AccountCode:  event.Rail.ClearingAccountCode(),
			EntryType:    domain.Debit,
			Amount:       payment.Amount,
			CurrencyCode: payment.CurrencyCode,
			PaymentID:    payment.PaymentID,
			CreatedAt:    now,
		},
		{
			EntryID:      uuid.NewString(),
			AccountCode:  domain.RevenueAccountCode,
			EntryType:    domain.Credit,
			Amount:       payment.Amount,
			CurrencyCode: payment.CurrencyCode,
			PaymentID:    payment.PaymentID,
			CreatedAt:    now,
		},
	}

	if err := accounting.ValidateBalancedPair(entries, s.tolerance); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrUnbalancedEntries, err)
	}

	if err := s.ledgerRepo.SaveEntryPair(ctx, entries); err != nil {
		return fmt.Errorf("failed to save ledger pair for payment %s: %w", payment.PaymentID, err)
	}

	logger.Info("ledger pair recorded",
		slog.String("payment_id", payment.PaymentID),
		slog.String("clearing_account", event.Rail.ClearingAccountCode()),
		slog.String("amount", payment.Amount.String()))
	return nil
}

// ComputeBalance folds all entries of one account under the sign convention.
func (s *ledgerService) ComputeBalance(ctx context.Context, organizationID, accountCode string) (decimal.Decimal, error) {
	account, err := s.ledgerRepo.FindAccountByCode(ctx, organizationID, accountCode)
	if err != nil {
		return decimal.Zero, err
	}

	entries, err := s.ledgerRepo.FindEntriesByAccountCode(ctx, organizationID, accountCode)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load entries for account %s: %w", accountCode, err)
	}

	return accounting.Balance(entries, account.AccountType)
}

// ListBalances recomputes the balance of every account in the organization's
// chart.
func (s *ledgerService) ListBalances(ctx context.Context, organizationID string) ([]portssvc.AccountBalance, error) {
	accounts, err := s.ledgerRepo.ListAccounts(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	balances := make([]portssvc.AccountBalance, 0, len(accounts))
	for _, account := range accounts {
		entries, err := s.ledgerRepo.FindEntriesByAccountCode(ctx, organizationID, account.Code)
		if err != nil {
			return nil, fmt.Errorf("failed to load entries for account %s: %w", account.Code, err)
		}
		balance, err := accounting.Balance(entries, account.AccountType)
		if err != nil {
			return nil, err
		}
		balances = append(balances, portssvc.AccountBalance{Account: account, Balance: balance})
	}
	return balances, nil
}

// VerifyPaymentEntries checks the balance invariant for one payment's entries.
// A violation is alerted to monitoring and surfaced, never swallowed, but it
// does not block the pipeline: callers decide whether to continue.
func (s *ledgerService) VerifyPaymentEntries(ctx context.Context, paymentID string) error {
	entries, err := s.ledgerRepo.FindEntriesByPayment(ctx, paymentID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	if err := accounting.ValidateBalancedPair(entries, s.tolerance); err != nil {
		metrics.LedgerImbalanceAlerts.Inc()
		middleware.GetLoggerFromCtx(ctx).Error("ledger balance invariant violated",
			slog.String("payment_id", paymentID),
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: payment %s: %v", apperrors.ErrUnbalancedEntries, paymentID, err)
	}
	return nil
}
