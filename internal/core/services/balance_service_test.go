package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/core/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mock JournalRepository ---
type MockJournalRepository struct {
	mock.Mock
}

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalRepository) FindEntryByReference(ctx context.Context, source, reference string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, source, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalRepository) FindReversalOf(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalRepository) ListEntries(ctx context.Context, filter domain.EntryFilter) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}
func (m *MockJournalRepository) AppendEntry(ctx context.Context, entry domain.JournalEntry) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalRepository) ListLegs(ctx context.Context, filter domain.LegFilter) ([]domain.CommittedLeg, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CommittedLeg), args.Error(1)
}
func (m *MockJournalRepository) LoadSnapshot(ctx context.Context, asOf time.Time) (*domain.LedgerSnapshot, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerSnapshot), args.Error(1)
}

var _ portsrepo.JournalRepositoryFacade = (*MockJournalRepository)(nil)

// --- Mock ChartReader ---
type MockChartReader struct {
	mock.Mock
}

func (m *MockChartReader) Resolve(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockChartReader) IsPostingEligible(ctx context.Context, accountID string) (domain.Eligibility, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(domain.Eligibility), args.Error(1)
}
func (m *MockChartReader) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockChartReader) ListChildren(ctx context.Context, accountID string) ([]domain.Account, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockChartReader) ListChartEvents(ctx context.Context, accountID string) ([]domain.ChartEvent, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).([]domain.ChartEvent), args.Error(1)
}

var _ portssvc.ChartReaderSvc = (*MockChartReader)(nil)

func committedLeg(seq int64, accountID string, side domain.Side, amount string, at time.Time) domain.CommittedLeg {
	return domain.CommittedLeg{
		Leg:         domain.Leg{AccountID: accountID, Side: side, Amount: domain.NewMoney(decimal.RequireFromString(amount), "USD")},
		EntryID:     "e",
		LineNo:      1,
		Sequence:    seq,
		CommittedAt: at,
	}
}

func TestTrialBalance_CorruptedLedgerIsCalculationError(t *testing.T) {
	ctx := context.Background()
	asOf := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	legs := new(MockJournalRepository)
	balances := services.NewBalanceService(legs, new(MockChartReader))

	// Committed data that never should have passed the journal.
	legs.On("LoadSnapshot", ctx, asOf).Return(&domain.LedgerSnapshot{
		AsOf: asOf,
		Accounts: []domain.Account{
			{AccountID: "cash", AccountType: domain.Asset, CurrencyCode: "USD"},
			{AccountID: "revenue", AccountType: domain.Income, CurrencyCode: "USD"},
		},
		Legs: []domain.CommittedLeg{
			committedLeg(1, "cash", domain.Debit, "100", asOf),
			committedLeg(1, "revenue", domain.Credit, "99", asOf),
		},
	}, nil)

	tb, err := balances.TrialBalance(ctx, portssvc.TrialBalanceParams{AsOf: asOf})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrCalculation)
	assert.Nil(t, tb)

	// Filtering rows does not hide the breach.
	_, err = balances.TrialBalance(ctx, portssvc.TrialBalanceParams{AsOf: asOf, AccountIDs: []string{"cash"}})
	assert.ErrorIs(t, err, apperrors.ErrCalculation)
}

func TestTrialBalance_LegOfUnknownAccountIsCalculationError(t *testing.T) {
	ctx := context.Background()
	asOf := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	legs := new(MockJournalRepository)
	balances := services.NewBalanceService(legs, new(MockChartReader))

	legs.On("LoadSnapshot", ctx, asOf).Return(&domain.LedgerSnapshot{
		AsOf:     asOf,
		Accounts: []domain.Account{{AccountID: "cash", AccountType: domain.Asset, CurrencyCode: "USD"}},
		Legs:     []domain.CommittedLeg{committedLeg(1, "lost", domain.Debit, "1", asOf)},
	}, nil)

	_, err := balances.TrialBalance(ctx, portssvc.TrialBalanceParams{AsOf: asOf})
	assert.ErrorIs(t, err, apperrors.ErrCalculation)
}

func TestAccountBalance_AppliesNormalSide(t *testing.T) {
	ctx := context.Background()
	asOf := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	legs := new(MockJournalRepository)
	chart := new(MockChartReader)
	balances := services.NewBalanceService(legs, chart)

	chart.On("Resolve", ctx, "loan").Return(&domain.Account{AccountID: "loan", AccountType: domain.Liability, CurrencyCode: "USD"}, nil)
	legs.On("ListLegs", ctx, domain.LegFilter{AccountID: "loan", AsOf: asOf}).Return([]domain.CommittedLeg{
		committedLeg(1, "loan", domain.Credit, "250", asOf.Add(-2*time.Hour)),
		committedLeg(2, "loan", domain.Debit, "50", asOf.Add(-time.Hour)),
	}, nil)

	b, err := balances.AccountBalance(ctx, "loan", asOf)
	require.NoError(t, err)
	assert.Equal(t, domain.Credit, b.NormalSide)
	assert.True(t, b.Balance.Amount.Equal(decimal.NewFromInt(200)))
	assert.True(t, b.Debits.Amount.Equal(decimal.NewFromInt(50)))
	assert.True(t, b.Credits.Amount.Equal(decimal.NewFromInt(250)))
	require.NotNil(t, b.LastPostedAt)
	assert.True(t, b.LastPostedAt.Equal(asOf.Add(-time.Hour)))
	legs.AssertExpectations(t)
}

func TestSubmitEntry_AppendFailureIsReported(t *testing.T) {
	ctx := context.Background()
	repo := new(MockJournalRepository)
	chart := new(MockChartReader)
	currencies := new(MockCurrencyReader)
	journal := services.NewJournalService(repo, chart, currencies)

	for _, id := range []string{"cash", "sales"} {
		chart.On("Resolve", ctx, id).Return(&domain.Account{AccountID: id, AccountType: domain.Asset, CurrencyCode: "USD", Role: domain.RolePosting, IsActive: true}, nil)
	}
	currencies.On("ValidateCurrency", ctx, "USD").Return(&domain.Currency{CurrencyCode: "USD", Precision: 2}, nil)
	repo.On("AppendEntry", ctx, mock.MatchedBy(func(e domain.JournalEntry) bool {
		return e.EntryID != "" && e.Status == domain.StatusCommitted && len(e.Legs) == 2
	})).Return(nil, apperrors.NewAppError(500, "storage unavailable", nil))

	_, err := journal.SubmitEntry(ctx, dto.SubmitEntryRequest{
		Source:            "payments",
		ExternalReference: "r1",
		Postings: []dto.PostingRequest{{
			DebitAccountID: "cash", CreditAccountID: "sales", Amount: decimal.NewFromInt(5), CurrencyCode: "USD",
		}},
	}, "tester")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInternal)
	repo.AssertExpectations(t)
	// Each account is resolved once and the policy is applied locally.
	chart.AssertNumberOfCalls(t, "Resolve", 2)
	chart.AssertNotCalled(t, "IsPostingEligible", mock.Anything, mock.Anything)
}

func TestSubmitEntry_ChartFailureIsNotAValidationError(t *testing.T) {
	ctx := context.Background()
	repo := new(MockJournalRepository)
	chart := new(MockChartReader)
	currencies := new(MockCurrencyReader)
	journal := services.NewJournalService(repo, chart, currencies)

	chart.On("Resolve", ctx, "cash").Return(nil, apperrors.NewAppError(500, "failed to load account", nil))

	_, err := journal.SubmitEntry(ctx, dto.SubmitEntryRequest{
		Source:            "payments",
		ExternalReference: "r1",
		Legs: []dto.LegRequest{
			{AccountID: "cash", Side: domain.Debit, Amount: decimal.NewFromInt(5), CurrencyCode: "USD"},
			{AccountID: "sales", Side: domain.Credit, Amount: decimal.NewFromInt(5), CurrencyCode: "USD"},
		},
	}, "tester")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInternal)
	assert.NotErrorIs(t, err, apperrors.ErrValidation)
	repo.AssertNotCalled(t, "AppendEntry", mock.Anything, mock.Anything)
}

// --- Mock CurrencyReader ---
type MockCurrencyReader struct {
	mock.Mock
}

func (m *MockCurrencyReader) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	args := m.Called(ctx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}
func (m *MockCurrencyReader) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Currency), args.Error(1)
}
func (m *MockCurrencyReader) ValidateCurrency(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	args := m.Called(ctx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}
func (m *MockCurrencyReader) FormatAmount(ctx context.Context, amount domain.Money) (string, error) {
	args := m.Called(ctx, amount)
	return args.String(0), args.Error(1)
}

var _ portssvc.CurrencyReaderSvc = (*MockCurrencyReader)(nil)
