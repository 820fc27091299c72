package repositories

// RepositoryProvider bundles every repository implementation for injection
// into the service container.
type RepositoryProvider struct {
	AccountRepo   AccountRepositoryWithTx
	LedgerRepo    LedgerRepositoryWithTx
	ReportingRepo ReportingRepository
	UserRepo      UserRepositoryFacade
}
