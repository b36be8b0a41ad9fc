package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/luminapay/railsync/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgx-backed repository over one shared pool.
func NewRepositoryProvider(pool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		PaymentRepo:      newPgxPaymentRepository(pool),
		SnapshotRepo:     newPgxSnapshotRepository(pool),
		LedgerRepo:       newPgxLedgerRepository(pool),
		SyncJobRepo:      newPgxSyncJobRepository(pool),
		OrganizationRepo: newPgxOrganizationRepository(pool),
		ReportingRepo:    newPgxReportingRepository(pool),
	}
}
