package services

// ServiceContainer holds instances of all the application services.
// It is the entry point handlers and commands use to reach the ledger.
type ServiceContainer struct {
	Chart    ChartSvcFacade
	Journal  JournalSvcFacade
	Balance  BalanceSvc
	Currency CurrencySvcFacade
}
