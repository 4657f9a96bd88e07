package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// Every storage driver (memory, postgres, sqlite) builds one.
type RepositoryProvider struct {
	AccountRepo  AccountRepositoryFacade
	CurrencyRepo CurrencyRepositoryFacade
	JournalRepo  JournalRepositoryFacade
	// Close releases the driver's resources. It may be nil.
	Close func()
}
