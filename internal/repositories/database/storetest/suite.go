// Package storetest holds the behaviour every storage driver must share. Each
// driver's tests run StoreSuite against a fresh provider.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// Factory builds an empty provider for one test.
type Factory func() (portsrepo.RepositoryProvider, error)

// StoreSuite checks a storage driver through the repository ports only.
type StoreSuite struct {
	suite.Suite
	NewProvider Factory
	// Concurrency is the number of parallel appends in TestConcurrentAppendsAreGapless.
	Concurrency int

	ctx   context.Context
	repos portsrepo.RepositoryProvider
	base  time.Time
}

func (s *StoreSuite) SetupTest() {
	repos, err := s.NewProvider()
	s.Require().NoError(err)
	s.repos = repos
	s.ctx = context.Background()
	s.base = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	s.Require().NoError(s.repos.CurrencyRepo.SaveCurrency(s.ctx, domain.Currency{CurrencyCode: "USD", Symbol: "$", Name: "US Dollar", Precision: 2}))
	s.Require().NoError(s.repos.CurrencyRepo.SaveCurrency(s.ctx, domain.Currency{CurrencyCode: "EUR", Symbol: "€", Name: "Euro", Precision: 2}))
	for _, a := range []domain.Account{
		{AccountID: "cash", Name: "Cash", AccountType: domain.Asset, CurrencyCode: "USD"},
		{AccountID: "revenue", Name: "Revenue", AccountType: domain.Income, CurrencyCode: "USD"},
		{AccountID: "eur-cash", Name: "Cash EUR", AccountType: domain.Asset, CurrencyCode: "EUR"},
		{AccountID: "eur-revenue", Name: "Revenue EUR", AccountType: domain.Income, CurrencyCode: "EUR"},
	} {
		a.Role = domain.RolePosting
		a.IsActive = true
		a.Version = 1
		a.CreatedAt = s.base
		a.LastUpdatedAt = s.base
		s.Require().NoError(s.repos.AccountRepo.SaveAccount(s.ctx, a, s.event(a.AccountID, domain.EventRegistered)))
	}
}

func (s *StoreSuite) TearDownTest() {
	if s.repos.Close != nil {
		s.repos.Close()
	}
}

func (s *StoreSuite) event(accountID string, kind domain.ChartEventKind) domain.ChartEvent {
	return domain.ChartEvent{
		EventID:    uuid.NewString(),
		AccountID:  accountID,
		Kind:       kind,
		Reason:     "test",
		Actor:      "tester",
		OccurredAt: s.base,
	}
}

func (s *StoreSuite) entry(id, reference string, amount string, committedAt time.Time) domain.JournalEntry {
	m := domain.NewMoney(decimal.RequireFromString(amount), "USD")
	return domain.JournalEntry{
		EntryID: id,
		Metadata: domain.EntryMetadata{
			Source:            "payments",
			ExternalReference: reference,
			Description:       "sale",
			OccurredAt:        committedAt,
			CreatedBy:         "tester",
		},
		Legs: []domain.Leg{
			{AccountID: "cash", Side: domain.Debit, Amount: m},
			{AccountID: "revenue", Side: domain.Credit, Amount: m, Memo: "income"},
		},
		Status:      domain.StatusCommitted,
		CommittedAt: committedAt,
	}
}

func (s *StoreSuite) TestAccountRoundTrip() {
	acc, err := s.repos.AccountRepo.FindAccountByID(s.ctx, "cash")
	s.Require().NoError(err)
	s.Equal("Cash", acc.Name)
	s.Equal(domain.Asset, acc.AccountType)
	s.Equal(domain.RolePosting, acc.Role)
	s.True(acc.IsActive)
	s.Equal(int64(1), acc.Version)
	s.False(acc.HasParent())

	_, err = s.repos.AccountRepo.FindAccountByID(s.ctx, "nope")
	s.ErrorIs(err, apperrors.ErrNotFound)

	found, err := s.repos.AccountRepo.FindAccountsByIDs(s.ctx, []string{"cash", "nope", "revenue"})
	s.Require().NoError(err)
	s.Len(found, 2)

	all, err := s.repos.AccountRepo.ListAccounts(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 4)
	s.Equal("cash", all[0].AccountID)
	s.Equal("revenue", all[3].AccountID)
}

func (s *StoreSuite) TestSaveAccountDuplicate() {
	dup := domain.Account{AccountID: "cash", Name: "Other", AccountType: domain.Asset, CurrencyCode: "USD", Role: domain.RolePosting, IsActive: true, Version: 1}
	err := s.repos.AccountRepo.SaveAccount(s.ctx, dup, s.event("cash", domain.EventRegistered))
	s.ErrorIs(err, apperrors.ErrDuplicate)
}

func (s *StoreSuite) TestUpdateAccountOptimisticVersion() {
	acc, err := s.repos.AccountRepo.FindAccountByID(s.ctx, "revenue")
	s.Require().NoError(err)

	acc.IsActive = false
	acc.Version = 2
	s.Require().NoError(s.repos.AccountRepo.UpdateAccount(s.ctx, *acc, 1, s.event("revenue", domain.EventDeactivated)))

	stale := *acc
	stale.IsActive = true
	stale.Version = 2
	err = s.repos.AccountRepo.UpdateAccount(s.ctx, stale, 1, s.event("revenue", domain.EventReactivated))
	s.ErrorIs(err, apperrors.ErrConflict)

	events, err := s.repos.AccountRepo.ListChartEvents(s.ctx, "revenue")
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(domain.EventRegistered, events[0].Kind)
	s.Equal(domain.EventDeactivated, events[1].Kind)
}

func (s *StoreSuite) TestChildAccounts() {
	parent := domain.Account{AccountID: "assets", Name: "Assets", AccountType: domain.Asset, CurrencyCode: "USD", Role: domain.RoleSummary, IsActive: true, Version: 1}
	s.Require().NoError(s.repos.AccountRepo.SaveAccount(s.ctx, parent, s.event("assets", domain.EventRegistered)))
	child := domain.Account{AccountID: "petty-cash", Name: "Petty", AccountType: domain.Asset, CurrencyCode: "USD", ParentAccountID: "assets", Role: domain.RolePosting, IsActive: true, Version: 1}
	s.Require().NoError(s.repos.AccountRepo.SaveAccount(s.ctx, child, s.event("petty-cash", domain.EventRegistered)))

	children, err := s.repos.AccountRepo.ListChildAccounts(s.ctx, "assets")
	s.Require().NoError(err)
	s.Require().Len(children, 1)
	s.Equal("petty-cash", children[0].AccountID)
	s.Equal("assets", children[0].ParentAccountID)
}

func (s *StoreSuite) TestCurrencies() {
	c, err := s.repos.CurrencyRepo.FindCurrencyByCode(s.ctx, "USD")
	s.Require().NoError(err)
	s.Equal(2, c.Precision)

	_, err = s.repos.CurrencyRepo.FindCurrencyByCode(s.ctx, "XXX")
	s.ErrorIs(err, apperrors.ErrNotFound)

	list, err := s.repos.CurrencyRepo.ListCurrencies(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal("EUR", list[0].CurrencyCode)
}

func (s *StoreSuite) TestAppendAssignsSequenceAndMonotonicCommitTime() {
	first, err := s.repos.JournalRepo.AppendEntry(s.ctx, s.entry("e1", "r1", "10.00", s.base.Add(time.Hour)))
	s.Require().NoError(err)
	s.Equal(int64(1), first.Sequence)

	// A clock that went backwards still yields a non-decreasing commit time.
	second, err := s.repos.JournalRepo.AppendEntry(s.ctx, s.entry("e2", "r2", "5.00", s.base))
	s.Require().NoError(err)
	s.Equal(int64(2), second.Sequence)
	s.False(second.CommittedAt.Before(first.CommittedAt))

	got, err := s.repos.JournalRepo.FindEntryByID(s.ctx, "e1")
	s.Require().NoError(err)
	s.Require().Len(got.Legs, 2)
	s.Equal(domain.Debit, got.Legs[0].Side)
	s.Equal("cash", got.Legs[0].AccountID)
	s.True(got.Legs[0].Amount.Equal(domain.NewMoney(decimal.RequireFromString("10"), "USD")))
	s.Equal("income", got.Legs[1].Memo)
	s.Equal("payments", got.Metadata.Source)
	s.Equal(domain.StatusCommitted, got.Status)

	byRef, err := s.repos.JournalRepo.FindEntryByReference(s.ctx, "payments", "r2")
	s.Require().NoError(err)
	s.Equal("e2", byRef.EntryID)

	_, err = s.repos.JournalRepo.FindEntryByID(s.ctx, "missing")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *StoreSuite) TestAppendRejectsDuplicateReference() {
	_, err := s.repos.JournalRepo.AppendEntry(s.ctx, s.entry("e1", "r1", "10.00", s.base))
	s.Require().NoError(err)

	_, err = s.repos.JournalRepo.AppendEntry(s.ctx, s.entry("e2", "r1", "10.00", s.base))
	s.ErrorIs(err, apperrors.ErrDuplicate)

	// The failed append consumed no sequence number.
	next, err := s.repos.JournalRepo.AppendEntry(s.ctx, s.entry("e3", "r3", "1.00", s.base))
	s.Require().NoError(err)
	s.Equal(int64(2), next.Sequence)
}

func (s *StoreSuite) TestOneReversalPerEntry() {
	_, err := s.repos.JournalRepo.AppendEntry(s.ctx, s.entry("e1", "r1", "10.00", s.base))
	s.Require().NoError(err)

	reversal := s.entry("rev1", domain.ReversalReferencePrefix+"e1", "10.00", s.base)
	for i := range reversal.Legs {
		reversal.Legs[i] = reversal.Legs[i].Reversed()
	}
	reversal.ReversalOf = "e1"
	reversal.ReversalReason = "mistake"
	_, err = s.repos.JournalRepo.AppendEntry(s.ctx, reversal)
	s.Require().NoError(err)

	found, err := s.repos.JournalRepo.FindReversalOf(s.ctx, "e1")
	s.Require().NoError(err)
	s.Equal("rev1", found.EntryID)
	s.Equal("mistake", found.ReversalReason)

	again := reversal
	again.EntryID = "rev2"
	again.Metadata.ExternalReference = "other"
	_, err = s.repos.JournalRepo.AppendEntry(s.ctx, again)
	s.ErrorIs(err, apperrors.ErrAlreadyReversed)

	_, err = s.repos.JournalRepo.FindReversalOf(s.ctx, "rev1")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *StoreSuite) TestListEntriesPagesBySequence() {
	for i := 1; i <= 5; i++ {
		e := s.entry(fmt.Sprintf("e%d", i), fmt.Sprintf("r%d", i), "1.00", s.base.Add(time.Duration(i)*time.Minute))
		if i%2 == 0 {
			e.Metadata.Source = "loans"
		}
		_, err := s.repos.JournalRepo.AppendEntry(s.ctx, e)
		s.Require().NoError(err)
	}

	page, err := s.repos.JournalRepo.ListEntries(s.ctx, domain.EntryFilter{Limit: 2})
	s.Require().NoError(err)
	s.Require().Len(page, 2)
	s.Equal(int64(1), page[0].Sequence)
	s.Equal(int64(2), page[1].Sequence)

	rest, err := s.repos.JournalRepo.ListEntries(s.ctx, domain.EntryFilter{AfterSequence: 2, Limit: 10})
	s.Require().NoError(err)
	s.Require().Len(rest, 3)
	s.Equal(int64(3), rest[0].Sequence)

	loans, err := s.repos.JournalRepo.ListEntries(s.ctx, domain.EntryFilter{Source: "loans"})
	s.Require().NoError(err)
	s.Require().Len(loans, 2)
	s.Equal("e2", loans[0].EntryID)
	s.Equal("e4", loans[1].EntryID)
}

func (s *StoreSuite) TestListLegsWindow() {
	for i := 1; i <= 3; i++ {
		_, err := s.repos.JournalRepo.AppendEntry(s.ctx, s.entry(fmt.Sprintf("e%d", i), fmt.Sprintf("r%d", i), "1.00", s.base.Add(time.Duration(i)*time.Hour)))
		s.Require().NoError(err)
	}

	all, err := s.repos.JournalRepo.ListLegs(s.ctx, domain.LegFilter{AccountID: "cash", AsOf: s.base.Add(10 * time.Hour)})
	s.Require().NoError(err)
	s.Len(all, 3)

	upTo2, err := s.repos.JournalRepo.ListLegs(s.ctx, domain.LegFilter{AccountID: "cash", AsOf: s.base.Add(2 * time.Hour)})
	s.Require().NoError(err)
	s.Len(upTo2, 2)

	window, err := s.repos.JournalRepo.ListLegs(s.ctx, domain.LegFilter{After: s.base.Add(time.Hour), AsOf: s.base.Add(3 * time.Hour)})
	s.Require().NoError(err)
	s.Require().Len(window, 4)
	s.Equal(int64(2), window[0].Sequence)
	s.Equal(1, window[0].LineNo)
	s.Equal(2, window[1].LineNo)
	s.Equal(int64(3), window[3].Sequence)
}

func (s *StoreSuite) TestSnapshotIsConsistent() {
	_, err := s.repos.JournalRepo.AppendEntry(s.ctx, s.entry("e1", "r1", "7.00", s.base))
	s.Require().NoError(err)
	_, err = s.repos.JournalRepo.AppendEntry(s.ctx, s.entry("e2", "r2", "3.00", s.base.Add(time.Hour)))
	s.Require().NoError(err)

	snap, err := s.repos.JournalRepo.LoadSnapshot(s.ctx, s.base.Add(30*time.Minute))
	s.Require().NoError(err)
	s.Len(snap.Accounts, 4)
	s.Require().Len(snap.Legs, 2)
	s.Equal("e1", snap.Legs[0].EntryID)
}

func (s *StoreSuite) TestConcurrentAppendsAreGapless() {
	n := s.Concurrency
	if n == 0 {
		n = 20
	}
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.repos.JournalRepo.AppendEntry(s.ctx, s.entry(fmt.Sprintf("c%d", i), fmt.Sprintf("ref-%d", i), "1.00", s.base))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.Require().NoError(err)
	}

	entries, err := s.repos.JournalRepo.ListEntries(s.ctx, domain.EntryFilter{Limit: n + 1})
	s.Require().NoError(err)
	s.Require().Len(entries, n)
	for i, e := range entries {
		s.Equal(int64(i+1), e.Sequence)
		if i > 0 {
			s.False(e.CommittedAt.Before(entries[i-1].CommittedAt))
		}
	}
}
