package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock ChartService ---
type MockChartService struct {
	mock.Mock
}

func (m *MockChartService) account(args mock.Arguments) (*domain.Account, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockChartService) Resolve(ctx context.Context, accountID string) (*domain.Account, error) {
	return m.account(m.Called(ctx, accountID))
}
func (m *MockChartService) IsPostingEligible(ctx context.Context, accountID string) (domain.Eligibility, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(domain.Eligibility), args.Error(1)
}
func (m *MockChartService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockChartService) ListChildren(ctx context.Context, accountID string) ([]domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockChartService) ListChartEvents(ctx context.Context, accountID string) ([]domain.ChartEvent, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChartEvent), args.Error(1)
}
func (m *MockChartService) RegisterAccount(ctx context.Context, req dto.RegisterAccountRequest, actor string) (*domain.Account, error) {
	return m.account(m.Called(ctx, req, actor))
}
func (m *MockChartService) Reclassify(ctx context.Context, accountID string, req dto.ReclassifyAccountRequest, actor string) (*domain.Account, error) {
	return m.account(m.Called(ctx, accountID, req, actor))
}
func (m *MockChartService) Reparent(ctx context.Context, accountID string, req dto.ReparentAccountRequest, actor string) (*domain.Account, error) {
	return m.account(m.Called(ctx, accountID, req, actor))
}
func (m *MockChartService) SetRole(ctx context.Context, accountID string, req dto.SetAccountRoleRequest, actor string) (*domain.Account, error) {
	return m.account(m.Called(ctx, accountID, req, actor))
}
func (m *MockChartService) Deactivate(ctx context.Context, accountID string, req dto.ChartEditRequest, actor string) (*domain.Account, error) {
	return m.account(m.Called(ctx, accountID, req, actor))
}
func (m *MockChartService) Reactivate(ctx context.Context, accountID string, req dto.ChartEditRequest, actor string) (*domain.Account, error) {
	return m.account(m.Called(ctx, accountID, req, actor))
}
func (m *MockChartService) MakePosting(ctx context.Context, debitAccountID, creditAccountID string, amount domain.Money, memo string) (domain.Posting, error) {
	args := m.Called(ctx, debitAccountID, creditAccountID, amount, memo)
	return args.Get(0).(domain.Posting), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.ChartSvcFacade = (*MockChartService)(nil)

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) entry(args mock.Arguments) (*domain.JournalEntry, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) SubmitEntry(ctx context.Context, req dto.SubmitEntryRequest, actor string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, req, actor))
}
func (m *MockJournalService) ReverseEntry(ctx context.Context, entryID string, req dto.ReverseEntryRequest, actor string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, entryID, req, actor))
}
func (m *MockJournalService) GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, entryID))
}
func (m *MockJournalService) FindEntryByReference(ctx context.Context, source, reference string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, source, reference))
}
func (m *MockJournalService) ListEntries(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListJournalsResponse), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

// --- Mock BalanceService ---
type MockBalanceService struct {
	mock.Mock
}

func (m *MockBalanceService) AccountBalance(ctx context.Context, accountID string, asOf time.Time) (*domain.AccountBalance, error) {
	args := m.Called(ctx, accountID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountBalance), args.Error(1)
}
func (m *MockBalanceService) PeriodBalance(ctx context.Context, accountID string, from, to time.Time) (*domain.PeriodBalance, error) {
	args := m.Called(ctx, accountID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PeriodBalance), args.Error(1)
}
func (m *MockBalanceService) TrialBalance(ctx context.Context, params portssvc.TrialBalanceParams) (*domain.TrialBalance, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrialBalance), args.Error(1)
}

var _ portssvc.BalanceSvc = (*MockBalanceService)(nil)

// --- Mock CurrencyService ---
type MockCurrencyService struct {
	mock.Mock
}

func (m *MockCurrencyService) currency(args mock.Arguments) (*domain.Currency, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	return m.currency(m.Called(ctx, currencyCode))
}
func (m *MockCurrencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}
func (m *MockCurrencyService) ValidateCurrency(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	return m.currency(m.Called(ctx, currencyCode))
}
func (m *MockCurrencyService) FormatAmount(ctx context.Context, amount domain.Money) (string, error) {
	args := m.Called(ctx, amount)
	return args.String(0), args.Error(1)
}
func (m *MockCurrencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error) {
	return m.currency(m.Called(ctx, req, creatorUserID))
}
func (m *MockCurrencyService) SeedDefaultCurrencies(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

var _ portssvc.CurrencySvcFacade = (*MockCurrencyService)(nil)
