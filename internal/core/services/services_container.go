package services

import (
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
)

// NewServiceContainer wires every ledger service on top of one storage driver.
func NewServiceContainer(repos portsrepo.RepositoryProvider, options ...ServiceOption) *portssvc.ServiceContainer {
	currencySvc := NewCurrencyService(repos.CurrencyRepo, options...)
	chartSvc := NewChartService(repos.AccountRepo, currencySvc, options...)
	journalSvc := NewJournalService(repos.JournalRepo, chartSvc, currencySvc, options...)
	balanceSvc := NewBalanceService(repos.JournalRepo, chartSvc, options...)

	return &portssvc.ServiceContainer{
		Chart:    chartSvc,
		Journal:  journalSvc,
		Balance:  balanceSvc,
		Currency: currencySvc,
	}
}
