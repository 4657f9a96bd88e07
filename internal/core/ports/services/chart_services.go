package services

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// ChartReaderSvc defines read operations on the chart of accounts
type ChartReaderSvc interface {
	// Resolve is the single authority on whether an account exists. It
	// returns apperrors.ErrNotFound for unknown IDs.
	Resolve(ctx context.Context, accountID string) (*domain.Account, error)

	// IsPostingEligible evaluates the posting policy table for an account.
	IsPostingEligible(ctx context.Context, accountID string) (domain.Eligibility, error)

	ListAccounts(ctx context.Context) ([]domain.Account, error)
	ListChildren(ctx context.Context, accountID string) ([]domain.Account, error)
	ListChartEvents(ctx context.Context, accountID string) ([]domain.ChartEvent, error)
}

// ChartWriterSvc defines the governance operations of the chart. Every
// structural edit is recorded as a chart event.
type ChartWriterSvc interface {
	RegisterAccount(ctx context.Context, req dto.RegisterAccountRequest, actor string) (*domain.Account, error)
	Reclassify(ctx context.Context, accountID string, req dto.ReclassifyAccountRequest, actor string) (*domain.Account, error)
	Reparent(ctx context.Context, accountID string, req dto.ReparentAccountRequest, actor string) (*domain.Account, error)
	SetRole(ctx context.Context, accountID string, req dto.SetAccountRoleRequest, actor string) (*domain.Account, error)
	Deactivate(ctx context.Context, accountID string, req dto.ChartEditRequest, actor string) (*domain.Account, error)
	Reactivate(ctx context.Context, accountID string, req dto.ChartEditRequest, actor string) (*domain.Account, error)
}

// PostingBuilderSvc constructs postings against resolved accounts
type PostingBuilderSvc interface {
	// MakePosting validates a debit/credit pair against the chart and the
	// currency registry.
	MakePosting(ctx context.Context, debitAccountID, creditAccountID string, amount domain.Money, memo string) (domain.Posting, error)
}

// ChartSvcFacade combines all chart-related service interfaces
type ChartSvcFacade interface {
	ChartReaderSvc
	ChartWriterSvc
	PostingBuilderSvc
}
