package services_test

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/core/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/repositories/database/memory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// testClock is a manually advanced clock shared by every service in a test.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

type LedgerTestSuite struct {
	suite.Suite
	ctx   context.Context
	clock *testClock
	repos portsrepo.RepositoryProvider
	svc   *portssvc.ServiceContainer
}

func TestLedgerTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerTestSuite))
}

func (s *LedgerTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = &testClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	s.repos = memory.NewRepositoryProvider()
	s.svc = services.NewServiceContainer(s.repos, services.WithClock(s.clock.Now))
	s.Require().NoError(s.svc.Currency.SeedDefaultCurrencies(s.ctx))

	s.register("cash", domain.Asset, "USD")
	s.register("revenue", domain.Income, "USD")
	s.register("rent", domain.Expense, "USD")
	s.register("equity", domain.Equity, "USD")
	s.register("eur-cash", domain.Asset, "EUR")
	s.register("eur-revenue", domain.Income, "EUR")
}

func (s *LedgerTestSuite) register(id string, t domain.AccountType, currency string) *domain.Account {
	acc, err := s.svc.Chart.RegisterAccount(s.ctx, dto.RegisterAccountRequest{
		AccountID:    id,
		Name:         id,
		AccountType:  t,
		CurrencyCode: currency,
	}, "tester")
	s.Require().NoError(err)
	return acc
}

func usd(amount string) decimal.Decimal {
	return decimal.RequireFromString(amount)
}

func (s *LedgerTestSuite) pairRequest(ref, debit, credit, amount string) dto.SubmitEntryRequest {
	return dto.SubmitEntryRequest{
		Source:            "payments",
		ExternalReference: ref,
		Postings: []dto.PostingRequest{{
			DebitAccountID:  debit,
			CreditAccountID: credit,
			Amount:          usd(amount),
			CurrencyCode:    "USD",
		}},
	}
}

func (s *LedgerTestSuite) submit(ref, debit, credit, amount string) *domain.JournalEntry {
	s.clock.Advance(time.Minute)
	entry, err := s.svc.Journal.SubmitEntry(s.ctx, s.pairRequest(ref, debit, credit, amount), "tester")
	s.Require().NoError(err)
	return entry
}

func (s *LedgerTestSuite) balance(id string) decimal.Decimal {
	b, err := s.svc.Balance.AccountBalance(s.ctx, id, time.Time{})
	s.Require().NoError(err)
	return b.Balance.Amount
}

func (s *LedgerTestSuite) TestCashAndLoanReceivableScenario() {
	// Loan receivable is modelled credit-normal here so that the credit
	// increases it, as the scenario states.
	s.register("loan-receivable", domain.Liability, "USD")
	cashBefore := s.balance("cash")
	loanBefore := s.balance("loan-receivable")

	entry := s.submit("loan-1", "cash", "loan-receivable", "100")
	s.Equal(int64(1), entry.Sequence)
	s.Equal(domain.StatusCommitted, entry.Status)

	s.True(s.balance("cash").Sub(cashBefore).Equal(usd("100")))
	s.True(s.balance("loan-receivable").Sub(loanBefore).Equal(usd("100")))
}

func (s *LedgerTestSuite) TestImbalancedEntryIsRejectedAndChangesNothing() {
	before := s.balance("cash")
	_, err := s.svc.Journal.SubmitEntry(s.ctx, dto.SubmitEntryRequest{
		Source:            "payments",
		ExternalReference: "bad-1",
		Legs: []dto.LegRequest{
			{AccountID: "cash", Side: domain.Debit, Amount: usd("100"), CurrencyCode: "USD"},
			{AccountID: "revenue", Side: domain.Credit, Amount: usd("99"), CurrencyCode: "USD"},
		},
	}, "tester")
	s.ErrorIs(err, apperrors.ErrImbalance)
	s.True(s.balance("cash").Equal(before))
	s.True(s.balance("revenue").IsZero())

	_, err = s.svc.Journal.FindEntryByReference(s.ctx, "payments", "bad-1")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LedgerTestSuite) TestCurrencyBucketsBalanceIndependently() {
	legs := []dto.LegRequest{
		{AccountID: "cash", Side: domain.Debit, Amount: usd("100"), CurrencyCode: "USD"},
		{AccountID: "revenue", Side: domain.Credit, Amount: usd("100"), CurrencyCode: "USD"},
		{AccountID: "eur-cash", Side: domain.Debit, Amount: usd("50"), CurrencyCode: "EUR"},
		{AccountID: "eur-revenue", Side: domain.Credit, Amount: usd("50"), CurrencyCode: "EUR"},
	}
	entry, err := s.svc.Journal.SubmitEntry(s.ctx, dto.SubmitEntryRequest{Source: "fx", ExternalReference: "multi", Legs: legs}, "tester")
	s.Require().NoError(err)
	s.Len(entry.Legs, 4)

	// Balanced in total but not per currency.
	crossed := []dto.LegRequest{
		{AccountID: "cash", Side: domain.Debit, Amount: usd("50"), CurrencyCode: "USD"},
		{AccountID: "eur-revenue", Side: domain.Credit, Amount: usd("50"), CurrencyCode: "EUR"},
	}
	_, err = s.svc.Journal.SubmitEntry(s.ctx, dto.SubmitEntryRequest{Source: "fx", ExternalReference: "crossed", Legs: crossed}, "tester")
	s.ErrorIs(err, apperrors.ErrImbalance)
}

func (s *LedgerTestSuite) TestUnknownAccountIsNotFound() {
	_, err := s.svc.Journal.SubmitEntry(s.ctx, s.pairRequest("r1", "cash", "ghost", "10"), "tester")
	s.ErrorIs(err, apperrors.ErrNotFound)

	_, err = s.svc.Balance.AccountBalance(s.ctx, "ghost", time.Time{})
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LedgerTestSuite) TestSubmitValidation() {
	_, err := s.svc.Chart.RegisterAccount(s.ctx, dto.RegisterAccountRequest{
		AccountID: "assets", Name: "Assets", AccountType: domain.Asset, CurrencyCode: "USD", Role: domain.RoleSummary,
	}, "tester")
	s.Require().NoError(err)
	s.register("closed", domain.Asset, "USD")
	_, err = s.svc.Chart.Deactivate(s.ctx, "closed", dto.ChartEditRequest{Reason: "branch closed"}, "tester")
	s.Require().NoError(err)

	tests := []struct {
		name string
		req  dto.SubmitEntryRequest
	}{
		{"missing source", func() dto.SubmitEntryRequest { r := s.pairRequest("v1", "cash", "revenue", "1"); r.Source = ""; return r }()},
		{"missing reference", s.pairRequest("", "cash", "revenue", "1")},
		{"no legs", dto.SubmitEntryRequest{Source: "payments", ExternalReference: "v2"}},
		{"single leg", dto.SubmitEntryRequest{Source: "payments", ExternalReference: "v3", Legs: []dto.LegRequest{
			{AccountID: "cash", Side: domain.Debit, Amount: usd("1"), CurrencyCode: "USD"},
		}}},
		{"same account", s.pairRequest("v4", "cash", "cash", "1")},
		{"zero amount", s.pairRequest("v5", "cash", "revenue", "0")},
		{"negative amount", s.pairRequest("v6", "cash", "revenue", "-5")},
		{"too many decimals", s.pairRequest("v7", "cash", "revenue", "1.005")},
		{"currency mismatch", dto.SubmitEntryRequest{Source: "payments", ExternalReference: "v8", Postings: []dto.PostingRequest{
			{DebitAccountID: "cash", CreditAccountID: "revenue", Amount: usd("1"), CurrencyCode: "EUR"},
		}}},
		{"summary account", s.pairRequest("v9", "assets", "revenue", "1")},
		{"deactivated account", s.pairRequest("v10", "closed", "revenue", "1")},
		{"one account only", dto.SubmitEntryRequest{Source: "payments", ExternalReference: "v11", Legs: []dto.LegRequest{
			{AccountID: "cash", Side: domain.Debit, Amount: usd("1"), CurrencyCode: "USD"},
			{AccountID: "cash", Side: domain.Credit, Amount: usd("1"), CurrencyCode: "USD"},
		}}},
		{"account on both sides", dto.SubmitEntryRequest{Source: "payments", ExternalReference: "v12", Legs: []dto.LegRequest{
			{AccountID: "cash", Side: domain.Debit, Amount: usd("100"), CurrencyCode: "USD"},
			{AccountID: "cash", Side: domain.Credit, Amount: usd("100"), CurrencyCode: "USD"},
			{AccountID: "revenue", Side: domain.Debit, Amount: usd("1"), CurrencyCode: "USD"},
			{AccountID: "revenue", Side: domain.Credit, Amount: usd("1"), CurrencyCode: "USD"},
		}}},
		{"pair and leg on opposite sides", dto.SubmitEntryRequest{Source: "payments", ExternalReference: "v13",
			Postings: []dto.PostingRequest{{DebitAccountID: "cash", CreditAccountID: "revenue", Amount: usd("5"), CurrencyCode: "USD"}},
			Legs: []dto.LegRequest{
				{AccountID: "rent", Side: domain.Debit, Amount: usd("2"), CurrencyCode: "USD"},
				{AccountID: "cash", Side: domain.Credit, Amount: usd("2"), CurrencyCode: "USD"},
			}}},
		{"reserved reversal reference", s.pairRequest(domain.ReversalReferencePrefix+"anything", "cash", "revenue", "1")},
	}
	for _, tc := range tests {
		s.Run(tc.name, func() {
			_, err := s.svc.Journal.SubmitEntry(s.ctx, tc.req, "tester")
			s.ErrorIs(err, apperrors.ErrValidation)
		})
	}

	list, err := s.svc.Journal.ListEntries(s.ctx, dto.ListJournalsParams{})
	s.Require().NoError(err)
	s.Empty(list.Entries)
}

func (s *LedgerTestSuite) TestDuplicateReferenceAndLookup() {
	first := s.submit("dup", "cash", "revenue", "5")

	_, err := s.svc.Journal.SubmitEntry(s.ctx, s.pairRequest("dup", "cash", "revenue", "5"), "tester")
	s.ErrorIs(err, apperrors.ErrDuplicate)

	found, err := s.svc.Journal.FindEntryByReference(s.ctx, "payments", "dup")
	s.Require().NoError(err)
	s.Equal(first.EntryID, found.EntryID)
	s.True(s.balance("cash").Equal(usd("5")))

	_, err = s.svc.Journal.FindEntryByReference(s.ctx, "", "dup")
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *LedgerTestSuite) TestReversal() {
	original := s.submit("sale-1", "cash", "revenue", "42.50")
	s.clock.Advance(time.Minute)

	reversal, err := s.svc.Journal.ReverseEntry(s.ctx, original.EntryID, dto.ReverseEntryRequest{Reason: "refund"}, "tester")
	s.Require().NoError(err)
	s.Equal(original.EntryID, reversal.ReversalOf)
	s.Equal("refund", reversal.ReversalReason)
	s.Equal(domain.ReversalReferencePrefix+original.EntryID, reversal.Metadata.ExternalReference)
	s.Equal(original.Metadata.Source, reversal.Metadata.Source)
	s.Require().Len(reversal.Legs, 2)
	s.Equal(domain.Credit, reversal.Legs[0].Side)
	s.Equal(domain.Debit, reversal.Legs[1].Side)

	s.True(s.balance("cash").IsZero())
	s.True(s.balance("revenue").IsZero())

	_, err = s.svc.Journal.ReverseEntry(s.ctx, original.EntryID, dto.ReverseEntryRequest{Reason: "again"}, "tester")
	s.ErrorIs(err, apperrors.ErrAlreadyReversed)
	s.ErrorIs(err, apperrors.ErrNotFound)

	_, err = s.svc.Journal.ReverseEntry(s.ctx, reversal.EntryID, dto.ReverseEntryRequest{Reason: "undo"}, "tester")
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.svc.Journal.ReverseEntry(s.ctx, "missing", dto.ReverseEntryRequest{Reason: "x"}, "tester")
	s.ErrorIs(err, apperrors.ErrNotFound)

	other := s.submit("sale-2", "cash", "revenue", "1")
	_, err = s.svc.Journal.ReverseEntry(s.ctx, other.EntryID, dto.ReverseEntryRequest{}, "tester")
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *LedgerTestSuite) TestReversalReferenceCannotBeTakenByAnOrdinaryEntry() {
	original := s.submit("sale-1", "cash", "revenue", "10")

	squat := s.pairRequest(domain.ReversalReferencePrefix+original.EntryID, "cash", "revenue", "1")
	_, err := s.svc.Journal.SubmitEntry(s.ctx, squat, "tester")
	s.ErrorIs(err, apperrors.ErrValidation)

	s.clock.Advance(time.Minute)
	reversal, err := s.svc.Journal.ReverseEntry(s.ctx, original.EntryID, dto.ReverseEntryRequest{Reason: "refund"}, "tester")
	s.Require().NoError(err)
	s.Equal(original.EntryID, reversal.ReversalOf)
	s.True(s.balance("cash").IsZero())
}

func (s *LedgerTestSuite) TestReferenceClashIsNotReportedAsAlreadyReversed() {
	original := s.submit("sale-1", "cash", "revenue", "10")

	// Written straight to the store, as data from before the prefix was reserved.
	amount := domain.NewMoney(usd("1"), "USD")
	_, err := s.repos.JournalRepo.AppendEntry(s.ctx, domain.JournalEntry{
		EntryID:     uuid.NewString(),
		Status:      domain.StatusCommitted,
		CommittedAt: s.clock.Advance(time.Minute),
		Metadata: domain.EntryMetadata{
			Source:            original.Metadata.Source,
			ExternalReference: domain.ReversalReferencePrefix + original.EntryID,
			OccurredAt:        s.clock.Now(),
		},
		Legs: []domain.Leg{
			{AccountID: "cash", Side: domain.Debit, Amount: amount},
			{AccountID: "revenue", Side: domain.Credit, Amount: amount},
		},
	})
	s.Require().NoError(err)

	_, err = s.svc.Journal.ReverseEntry(s.ctx, original.EntryID, dto.ReverseEntryRequest{Reason: "refund"}, "tester")
	s.ErrorIs(err, apperrors.ErrDuplicate)
	s.NotErrorIs(err, apperrors.ErrAlreadyReversed)
}

func (s *LedgerTestSuite) TestReversalOfDeactivatedAccountIsRejected() {
	original := s.submit("sale-1", "cash", "revenue", "10")
	_, err := s.svc.Chart.Deactivate(s.ctx, "revenue", dto.ChartEditRequest{Reason: "retired"}, "tester")
	s.Require().NoError(err)

	_, err = s.svc.Journal.ReverseEntry(s.ctx, original.EntryID, dto.ReverseEntryRequest{Reason: "refund"}, "tester")
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *LedgerTestSuite) TestPeriodBalanceRoundTrip() {
	s.submit("p0", "cash", "equity", "1000")
	from := s.clock.Advance(time.Hour)
	s.submit("p1", "rent", "cash", "300")
	s.submit("p2", "cash", "revenue", "120.25")
	to := s.clock.Advance(time.Hour)
	s.submit("p3", "cash", "revenue", "999")

	pb, err := s.svc.Balance.PeriodBalance(s.ctx, "cash", from, to)
	s.Require().NoError(err)
	s.True(pb.Opening.Amount.Equal(usd("1000")))
	s.True(pb.Debits.Amount.Equal(usd("120.25")))
	s.True(pb.Credits.Amount.Equal(usd("300")))
	s.True(pb.Net.Amount.Equal(usd("-179.75")))
	s.True(pb.Closing.Amount.Sub(pb.Opening.Amount).Equal(pb.Debits.Amount.Sub(pb.Credits.Amount)))

	closing, err := s.svc.Balance.AccountBalance(s.ctx, "cash", to)
	s.Require().NoError(err)
	s.True(closing.Balance.Equal(pb.Closing))

	rent, err := s.svc.Balance.PeriodBalance(s.ctx, "rent", from, to)
	s.Require().NoError(err)
	s.True(rent.Net.Amount.Equal(usd("300")))

	_, err = s.svc.Balance.PeriodBalance(s.ctx, "cash", to, from)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *LedgerTestSuite) TestOrderingLaw() {
	var checkpoints []time.Time
	for i := 0; i < 5; i++ {
		s.submit(fmt.Sprintf("o%d", i), "cash", "revenue", "10")
		checkpoints = append(checkpoints, s.clock.Advance(time.Second))
	}
	prevCash, prevRevenue := decimal.Zero, decimal.Zero
	for _, at := range checkpoints {
		cash, err := s.svc.Balance.AccountBalance(s.ctx, "cash", at)
		s.Require().NoError(err)
		revenue, err := s.svc.Balance.AccountBalance(s.ctx, "revenue", at)
		s.Require().NoError(err)
		s.True(cash.Balance.Amount.GreaterThanOrEqual(prevCash))
		s.True(revenue.Balance.Amount.GreaterThanOrEqual(prevRevenue))
		prevCash, prevRevenue = cash.Balance.Amount, revenue.Balance.Amount
	}
	s.True(prevCash.Equal(usd("50")))
}

func (s *LedgerTestSuite) TestBalanceIsDeterministic() {
	s.submit("d1", "cash", "revenue", "3.33")
	at := s.clock.Advance(time.Second)
	a, err := s.svc.Balance.AccountBalance(s.ctx, "cash", at)
	s.Require().NoError(err)
	b, err := s.svc.Balance.AccountBalance(s.ctx, "cash", at)
	s.Require().NoError(err)
	s.Equal(a, b)
	s.Require().NotNil(a.LastPostedAt)
}

func (s *LedgerTestSuite) TestTrialBalance() {
	s.submit("t1", "cash", "equity", "500")
	s.submit("t2", "rent", "cash", "120")
	s.submit("t3", "cash", "revenue", "80")
	_, err := s.svc.Journal.SubmitEntry(s.ctx, dto.SubmitEntryRequest{Source: "fx", ExternalReference: "t4", Legs: []dto.LegRequest{
		{AccountID: "eur-cash", Side: domain.Debit, Amount: usd("70"), CurrencyCode: "EUR"},
		{AccountID: "eur-revenue", Side: domain.Credit, Amount: usd("70"), CurrencyCode: "EUR"},
	}}, "tester")
	s.Require().NoError(err)

	tb, err := s.svc.Balance.TrialBalance(s.ctx, portssvc.TrialBalanceParams{})
	s.Require().NoError(err)
	s.Len(tb.Rows, 6)
	s.Equal("cash", tb.Rows[0].AccountID)
	s.True(tb.Rows[0].Debit.Equal(usd("460")))
	s.True(tb.Rows[0].Credit.IsZero())
	s.Require().Len(tb.Totals, 2)
	s.Equal("EUR", tb.Totals[0].CurrencyCode)
	for _, total := range tb.Totals {
		s.True(total.TotalDebits.Equal(total.TotalCredits), total.CurrencyCode)
	}
	s.True(tb.Totals[1].TotalDebits.Equal(usd("580")))

	filtered, err := s.svc.Balance.TrialBalance(s.ctx, portssvc.TrialBalanceParams{AccountIDs: []string{"cash"}})
	s.Require().NoError(err)
	s.Require().Len(filtered.Rows, 1)
	s.Require().Len(filtered.Totals, 1)
	s.True(filtered.Totals[0].TotalDebits.Equal(usd("460")))
	s.True(filtered.Totals[0].TotalCredits.IsZero())

	eur, err := s.svc.Balance.TrialBalance(s.ctx, portssvc.TrialBalanceParams{CurrencyCode: "EUR"})
	s.Require().NoError(err)
	s.Len(eur.Rows, 2)

	_, err = s.svc.Balance.TrialBalance(s.ctx, portssvc.TrialBalanceParams{AccountIDs: []string{"ghost"}})
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LedgerTestSuite) TestTrialBalanceAsOfPast() {
	s.submit("t1", "cash", "equity", "500")
	past := s.clock.Advance(time.Second)
	s.submit("t2", "cash", "equity", "1")

	tb, err := s.svc.Balance.TrialBalance(s.ctx, portssvc.TrialBalanceParams{AsOf: past, AccountIDs: []string{"cash"}})
	s.Require().NoError(err)
	s.True(tb.Rows[0].Debit.Equal(usd("500")))
}

func (s *LedgerTestSuite) TestTrialBalanceRejectsEmptyChart() {
	empty := services.NewServiceContainer(memory.NewRepositoryProvider(), services.WithClock(s.clock.Now))
	_, err := empty.Balance.TrialBalance(s.ctx, portssvc.TrialBalanceParams{})
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *LedgerTestSuite) TestRandomizedEntriesKeepLedgerBalanced() {
	rng := rand.New(rand.NewSource(20250101))
	accounts := []string{"cash", "revenue", "rent", "equity"}
	var committed []*domain.JournalEntry

	for i := 0; i < 200; i++ {
		n := 2 + rng.Intn(4)
		legs := make([]dto.LegRequest, 0, n+1)
		total := decimal.Zero
		for j := 0; j < n; j++ {
			amount := decimal.New(int64(1+rng.Intn(100000)), -2)
			total = total.Add(amount)
			legs = append(legs, dto.LegRequest{AccountID: accounts[rng.Intn(len(accounts))], Side: domain.Debit, Amount: amount, CurrencyCode: "USD"})
		}
		legs = append(legs, dto.LegRequest{AccountID: accounts[rng.Intn(len(accounts))], Side: domain.Credit, Amount: total, CurrencyCode: "USD"})
		if rng.Intn(2) == 0 {
			for k := range legs {
				legs[k].Side = legs[k].Side.Opposite()
			}
		}

		s.clock.Advance(time.Duration(rng.Intn(5)) * time.Second)
		entry, err := s.svc.Journal.SubmitEntry(s.ctx, dto.SubmitEntryRequest{Source: "random", ExternalReference: fmt.Sprintf("rnd-%d", i), Legs: legs}, "tester")
		if err != nil {
			// An account on both sides, or every leg on one account, is refused.
			s.Require().ErrorIs(err, apperrors.ErrValidation)
			continue
		}
		committed = append(committed, entry)
		if rng.Intn(10) == 0 {
			_, err := s.svc.Journal.ReverseEntry(s.ctx, entry.EntryID, dto.ReverseEntryRequest{Reason: "random"}, "tester")
			s.Require().NoError(err)
		}

		if i%25 == 0 {
			tb, err := s.svc.Balance.TrialBalance(s.ctx, portssvc.TrialBalanceParams{})
			s.Require().NoError(err)
			for _, total := range tb.Totals {
				s.True(total.TotalDebits.Equal(total.TotalCredits))
			}
		}
	}
	s.NotEmpty(committed)

	for i := 1; i < len(committed); i++ {
		s.Greater(committed[i].Sequence, committed[i-1].Sequence)
		s.False(committed[i].CommittedAt.Before(committed[i-1].CommittedAt))
	}
}

func (s *LedgerTestSuite) TestConcurrentSubmitsAreGapless() {
	const workers = 40
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.svc.Journal.SubmitEntry(s.ctx, s.pairRequest(fmt.Sprintf("c-%d", i), "cash", "revenue", "1"), "tester")
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.Require().NoError(err)
	}

	page, err := s.svc.Journal.ListEntries(s.ctx, dto.ListJournalsParams{Limit: 500})
	s.Require().NoError(err)
	s.Require().Len(page.Entries, workers)
	for i, e := range page.Entries {
		s.Equal(int64(i+1), e.Sequence)
	}
	s.True(s.balance("cash").Equal(usd("40")))
}

func (s *LedgerTestSuite) TestListEntriesPagination() {
	for i := 0; i < 5; i++ {
		s.submit(fmt.Sprintf("l%d", i), "cash", "revenue", "1")
	}
	first, err := s.svc.Journal.ListEntries(s.ctx, dto.ListJournalsParams{Source: "payments", Limit: 2})
	s.Require().NoError(err)
	s.Require().Len(first.Entries, 2)
	s.Require().NotNil(first.NextToken)

	second, err := s.svc.Journal.ListEntries(s.ctx, dto.ListJournalsParams{Source: "payments", Limit: 2, NextToken: *first.NextToken})
	s.Require().NoError(err)
	s.Require().Len(second.Entries, 2)
	s.Equal(int64(3), second.Entries[0].Sequence)

	third, err := s.svc.Journal.ListEntries(s.ctx, dto.ListJournalsParams{Source: "payments", Limit: 2, NextToken: *second.NextToken})
	s.Require().NoError(err)
	s.Len(third.Entries, 1)
	s.Nil(third.NextToken)

	_, err = s.svc.Journal.ListEntries(s.ctx, dto.ListJournalsParams{Source: "other", NextToken: *first.NextToken})
	s.ErrorIs(err, apperrors.ErrValidation)
}
