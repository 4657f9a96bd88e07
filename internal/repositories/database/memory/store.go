// Package memory is the in-process storage driver. A single Store backs the
// chart, the currency registry and the journal, guarded by one RWMutex so
// that an append is visible all at once or not at all.
package memory

import (
	"sync"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

type referenceKey struct {
	source    string
	reference string
}

// Store keeps every ledger table in memory.
type Store struct {
	mu sync.RWMutex

	accounts   map[string]domain.Account
	events     map[string][]domain.ChartEvent
	currencies map[string]domain.Currency

	entries         []domain.JournalEntry // index i holds sequence i+1
	byID            map[string]int
	byReference     map[referenceKey]int
	reversals       map[string]int
	lastCommittedAt time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		accounts:    make(map[string]domain.Account),
		events:      make(map[string][]domain.ChartEvent),
		currencies:  make(map[string]domain.Currency),
		byID:        make(map[string]int),
		byReference: make(map[referenceKey]int),
		reversals:   make(map[string]int),
	}
}

var (
	_ portsrepo.AccountRepositoryFacade  = (*Store)(nil)
	_ portsrepo.CurrencyRepositoryFacade = (*Store)(nil)
	_ portsrepo.JournalRepositoryFacade  = (*Store)(nil)
)

// NewRepositoryProvider exposes a fresh store through every repository port.
func NewRepositoryProvider() portsrepo.RepositoryProvider {
	s := NewStore()
	return portsrepo.RepositoryProvider{
		AccountRepo:  s,
		CurrencyRepo: s,
		JournalRepo:  s,
	}
}
