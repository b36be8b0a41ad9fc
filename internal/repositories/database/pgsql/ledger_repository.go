package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/luminapay/railsync/internal/apperrors"
	"github.com/luminapay/railsync/internal/core/domain"
	portsrepo "github.com/luminapay/railsync/internal/core/ports/repositories"
	"github.com/luminapay/railsync/internal/models"
	"github.com/luminapay/railsync/internal/utils/mapping"
)

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for ledger accounts and entries.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// SaveAccount inserts one chart-of-accounts row. A conflicting (organization,
// code) pair leaves the existing row untouched so provisioning is re-runnable.
func (r *PgxLedgerRepository) SaveAccount(ctx context.Context, account domain.LedgerAccount) error {
	query := `
		INSERT INTO ledger_accounts (account_id, organization_id, code, name, account_type, currency_code,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (organization_id, code) DO NOTHING;
	`
	m := mapping.ToModelLedgerAccount(account)
	_, err := r.Pool.Exec(ctx, query,
		m.AccountID,
		m.OrganizationID,
		m.Code,
		m.Name,
		m.AccountType,
		m.CurrencyCode,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save ledger account "+m.Code, err)
	}
	return nil
}

// SaveEntryPair writes all entries inside one transaction. Either the whole
// balanced pair lands or none of it does; a one-sided ledger state is never
// observable.
func (r *PgxLedgerRepository) SaveEntryPair(ctx context.Context, entries []domain.LedgerEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	// Will be ignored if transaction is committed successfully
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO ledger_entries (entry_id, account_code, entry_type, amount, currency_code, payment_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	batch := &pgx.Batch{}
	for _, entry := range entries {
		m := mapping.ToModelLedgerEntry(entry)
		batch.Queue(query,
			m.EntryID,
			m.AccountCode,
			m.EntryType,
			m.Amount,
			m.CurrencyCode,
			m.PaymentID,
			m.CreatedAt,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for range entries {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return apperrors.NewAppError(500, "failed to insert ledger entry", err)
		}
	}
	if err := results.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to close ledger batch", err)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxLedgerRepository) FindEntriesByAccountCode(ctx context.Context, organizationID, accountCode string) ([]domain.LedgerEntry, error) {
	query := `
		SELECT e.entry_id, e.account_code, e.entry_type, e.amount, e.currency_code, e.payment_id, e.created_at
		FROM ledger_entries e
		JOIN payments p ON p.payment_id = e.payment_id
		WHERE p.organization_id = $1 AND e.account_code = $2
		ORDER BY e.created_at ASC;
	`
	return r.queryEntries(ctx, query, organizationID, accountCode)
}

func (r *PgxLedgerRepository) FindEntriesByPayment(ctx context.Context, paymentID string) ([]domain.LedgerEntry, error) {
	query := `
		SELECT entry_id, account_code, entry_type, amount, currency_code, payment_id, created_at
		FROM ledger_entries
		WHERE payment_id = $1
		ORDER BY created_at ASC;
	`
	return r.queryEntries(ctx, query, paymentID)
}

func (r *PgxLedgerRepository) queryEntries(ctx context.Context, query string, args ...any) ([]domain.LedgerEntry, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query ledger entries", err)
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var m models.LedgerEntry
		if err := rows.Scan(
			&m.EntryID,
			&m.AccountCode,
			&m.EntryType,
			&m.Amount,
			&m.CurrencyCode,
			&m.PaymentID,
			&m.CreatedAt,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan ledger entry", err)
		}
		entries = append(entries, mapping.ToDomainLedgerEntry(m))
	}
	return entries, rows.Err()
}

func (r *PgxLedgerRepository) HasEntriesForPayment(ctx context.Context, paymentID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM ledger_entries WHERE payment_id = $1);`
	var exists bool
	if err := r.Pool.QueryRow(ctx, query, paymentID).Scan(&exists); err != nil {
		return false, apperrors.NewAppError(500, "failed to check ledger entries for payment "+paymentID, err)
	}
	return exists, nil
}

func (r *PgxLedgerRepository) FindAccountByCode(ctx context.Context, organizationID, code string) (*domain.LedgerAccount, error) {
	query := `
		SELECT account_id, organization_id, code, name, account_type, currency_code,
			created_at, created_by, last_updated_at, last_updated_by
		FROM ledger_accounts
		WHERE organization_id = $1 AND code = $2;
	`
	var m models.LedgerAccount
	err := r.Pool.QueryRow(ctx, query, organizationID, code).Scan(
		&m.AccountID,
		&m.OrganizationID,
		&m.Code,
		&m.Name,
		&m.AccountType,
		&m.CurrencyCode,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find ledger account "+code, err)
	}

	account := mapping.ToDomainLedgerAccount(m)
	return &account, nil
}

func (r *PgxLedgerRepository) ListAccounts(ctx context.Context, organizationID string) ([]domain.LedgerAccount, error) {
	query := `
		SELECT account_id, organization_id, code, name, account_type, currency_code,
			created_at, created_by, last_updated_at, last_updated_by
		FROM ledger_accounts
		WHERE organization_id = $1
		ORDER BY code ASC;
	`
	rows, err := r.Pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list ledger accounts", err)
	}
	defer rows.Close()

	var accounts []domain.LedgerAccount
	for rows.Next() {
		var m models.LedgerAccount
		if err := rows.Scan(
			&m.AccountID,
			&m.OrganizationID,
			&m.Code,
			&m.Name,
			&m.AccountType,
			&m.CurrencyCode,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan ledger account", err)
		}
		accounts = append(accounts, mapping.ToDomainLedgerAccount(m))
	}
	return accounts, rows.Err()
}
