package services

// ServiceContainer holds all the service facades handed to the HTTP layer and
// the queue worker.
type ServiceContainer struct {
	Rates          RateSvcFacade
	Snapshots      SnapshotSvcFacade
	Ledger         LedgerSvcFacade
	Reconciliation ReconciliationSvcFacade
	SyncQueue      SyncQueueSvcFacade
	Orchestrator   OrchestratorSvcFacade
	Reporting      ReportingSvcFacade
	Events         EventSvcFacade
	Organizations  OrganizationSvcFacade
}
