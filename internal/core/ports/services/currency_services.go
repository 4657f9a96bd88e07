package services

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// CurrencyReaderSvc defines read operations for currency data
type CurrencyReaderSvc interface {
	// GetCurrencyByCode retrieves a specific currency by its code.
	GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)

	// ListCurrencies retrieves all available currencies.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)

	// ValidateCurrency returns the registered currency for code, or an
	// apperrors.ErrValidation error when the code is not recognized.
	ValidateCurrency(ctx context.Context, currencyCode string) (*domain.Currency, error)

	// FormatAmount renders an amount at its currency's precision.
	FormatAmount(ctx context.Context, amount domain.Money) (string, error)
}

// CurrencyWriterSvc defines write operations for currency data
type CurrencyWriterSvc interface {
	// CreateCurrency persists a new currency.
	CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error)

	// SeedDefaultCurrencies registers the built-in ISO 4217 set.
	SeedDefaultCurrencies(ctx context.Context) error
}

// CurrencySvcFacade combines all currency-related service interfaces
type CurrencySvcFacade interface {
	CurrencyReaderSvc
	CurrencyWriterSvc
}
