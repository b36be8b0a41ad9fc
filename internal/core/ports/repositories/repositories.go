package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	PaymentRepo      PaymentRepositoryFacade
	SnapshotRepo     SnapshotRepositoryFacade
	LedgerRepo       LedgerRepositoryFacade
	SyncJobRepo      SyncJobRepositoryFacade
	OrganizationRepo OrganizationRepositoryFacade
	ReportingRepo    ReportingRepositoryFacade
}
