package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// defaultCurrencies is the ISO 4217 set registered on startup.
var defaultCurrencies = []domain.Currency{
	{CurrencyCode: "USD", Symbol: "$", Name: "US Dollar", Precision: 2},
	{CurrencyCode: "EUR", Symbol: "€", Name: "Euro", Precision: 2},
	{CurrencyCode: "GBP", Symbol: "£", Name: "Pound Sterling", Precision: 2},
	{CurrencyCode: "JPY", Symbol: "¥", Name: "Yen", Precision: 0},
	{CurrencyCode: "CHF", Symbol: "CHF", Name: "Swiss Franc", Precision: 2},
	{CurrencyCode: "CAD", Symbol: "CA$", Name: "Canadian Dollar", Precision: 2},
	{CurrencyCode: "AUD", Symbol: "A$", Name: "Australian Dollar", Precision: 2},
	{CurrencyCode: "CNY", Symbol: "CN¥", Name: "Yuan Renminbi", Precision: 2},
	{CurrencyCode: "INR", Symbol: "₹", Name: "Indian Rupee", Precision: 2},
	{CurrencyCode: "KES", Symbol: "KSh", Name: "Kenyan Shilling", Precision: 2},
	{CurrencyCode: "NGN", Symbol: "₦", Name: "Naira", Precision: 2},
	{CurrencyCode: "ZAR", Symbol: "R", Name: "Rand", Precision: 2},
	{CurrencyCode: "KWD", Symbol: "KD", Name: "Kuwaiti Dinar", Precision: 3},
}

type currencyService struct {
	BaseService
	currencyRepo portsrepo.CurrencyRepositoryFacade
}

// NewCurrencyService creates the currency collaborator used by the chart and
// the journal for code validation and amount formatting.
func NewCurrencyService(currencyRepo portsrepo.CurrencyRepositoryFacade, options ...ServiceOption) portssvc.CurrencySvcFacade {
	return &currencyService{
		BaseService:  newBaseService(options...),
		currencyRepo: currencyRepo,
	}
}

var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)

func (s *currencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	code := strings.ToUpper(req.CurrencyCode)

	if _, err := s.currencyRepo.FindCurrencyByCode(ctx, code); err == nil {
		return nil, fmt.Errorf("%w: currency %s", apperrors.ErrDuplicate, code)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check currency %s: %w", code, err)
	}

	now := s.Now()
	currency := domain.Currency{
		CurrencyCode: code,
		Symbol:       req.Symbol,
		Name:         req.Name,
		Precision:    req.Precision,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if err := s.currencyRepo.SaveCurrency(ctx, currency); err != nil {
		s.LogError(ctx, err, "Failed to save currency", slog.String("currency_code", code))
		return nil, fmt.Errorf("failed to create currency in service: %w", err)
	}
	s.LogInfo(ctx, "Currency created", slog.String("currency_code", code), slog.Int("precision", currency.Precision))
	return &currency, nil
}

func (s *currencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, strings.ToUpper(currencyCode))
	if err != nil {
		return nil, fmt.Errorf("failed to get currency %s: %w", currencyCode, err)
	}
	return currency, nil
}

func (s *currencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	currencies, err := s.currencyRepo.ListCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies in service: %w", err)
	}
	if currencies == nil {
		return []domain.Currency{}, nil
	}
	return currencies, nil
}

func (s *currencyService) ValidateCurrency(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	if !domain.IsCurrencyCode(currencyCode) {
		return nil, fmt.Errorf("%w: %q is not a 3-letter ISO currency code", apperrors.ErrValidation, currencyCode)
	}
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, currencyCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: currency %s is not recognized", apperrors.ErrValidation, currencyCode)
		}
		return nil, fmt.Errorf("failed to validate currency %s: %w", currencyCode, err)
	}
	return currency, nil
}

func (s *currencyService) FormatAmount(ctx context.Context, amount domain.Money) (string, error) {
	currency, err := s.ValidateCurrency(ctx, amount.Currency)
	if err != nil {
		return "", err
	}
	digits := amount.Amount.Abs().StringFixed(int32(currency.Precision))
	if amount.IsNegative() {
		return "-" + currency.Symbol + digits, nil
	}
	return currency.Symbol + digits, nil
}

func (s *currencyService) SeedDefaultCurrencies(ctx context.Context) error {
	now := s.Now()
	seeded := 0
	for _, c := range defaultCurrencies {
		_, err := s.currencyRepo.FindCurrencyByCode(ctx, c.CurrencyCode)
		if err == nil {
			continue
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("failed to check currency %s: %w", c.CurrencyCode, err)
		}
		c.AuditFields = domain.AuditFields{CreatedAt: now, CreatedBy: "system", LastUpdatedAt: now, LastUpdatedBy: "system"}
		if err := s.currencyRepo.SaveCurrency(ctx, c); err != nil {
			return fmt.Errorf("failed to seed currency %s: %w", c.CurrencyCode, err)
		}
		seeded++
	}
	s.LogInfo(ctx, "Default currencies seeded", slog.Int("inserted", seeded))
	return nil
}
