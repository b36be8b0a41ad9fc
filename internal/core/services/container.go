package services

import (
	"time"

	"github.com/luminapay/railsync/internal/core/ports/gateways"
	portsrepo "github.com/luminapay/railsync/internal/core/ports/repositories"
	portssvc "github.com/luminapay/railsync/internal/core/ports/services"
	"github.com/luminapay/railsync/internal/platform/ratecache"
	"github.com/shopspring/decimal"
)

// ContainerDeps bundles everything the service container needs: repositories,
// the injected rate cache (constructed once at startup, no global instance),
// the provider aggregator and the accounting gateway.
type ContainerDeps struct {
	Repos        *portsrepo.RepositoryProvider
	RateCache    *ratecache.Cache
	RateProvider gateways.RateProvider
	Accounting   gateways.AccountingGateway

	VolatileRateTTL time.Duration
	PeggedRateTTL   time.Duration
	Tolerance       decimal.Decimal
	WorkerBatch     int
	InterJobDelay   time.Duration
}

// NewContainer creates the service container with properly wired dependencies.
func NewContainer(deps ContainerDeps) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Rates = NewRateService(deps.RateCache, deps.RateProvider, deps.VolatileRateTTL, deps.PeggedRateTTL)
	container.Snapshots = NewSnapshotService(deps.Repos.SnapshotRepo, container.Rates)
	container.Ledger = NewLedgerService(deps.Repos.LedgerRepo, deps.Tolerance)
	container.Reconciliation = NewReconciliationService(deps.Repos.ReportingRepo, container.Ledger, deps.Tolerance)
	container.Orchestrator = NewOrchestratorService(
		deps.Repos.PaymentRepo,
		deps.Repos.OrganizationRepo,
		container.Snapshots,
		container.Ledger,
		deps.Accounting,
	)
	container.SyncQueue = NewSyncQueueService(deps.Repos.SyncJobRepo, container.Orchestrator, deps.WorkerBatch, deps.InterJobDelay)
	container.Events = NewEventService(deps.Repos.PaymentRepo, container.Snapshots, container.SyncQueue)
	container.Reporting = NewReportingService(deps.Repos.ReportingRepo, deps.Repos.SyncJobRepo)
	container.Organizations = NewOrganizationService(deps.Repos.OrganizationRepo, container.Ledger)

	return container
}
