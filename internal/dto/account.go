package dto

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// RegisterAccountRequest defines the data needed to register a new account in the chart.
type RegisterAccountRequest struct {
	AccountID       string             `json:"accountID" binding:"required,ledgerid"`
	Name            string             `json:"name" binding:"required,max=255"`
	AccountType     domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
	CurrencyCode    string             `json:"currencyCode" binding:"required,len=3,uppercase"`
	ParentAccountID string             `json:"parentAccountID" binding:"omitempty,ledgerid"`
	Description     string             `json:"description" binding:"max=1024"`
	Role            domain.AccountRole `json:"role" binding:"omitempty,oneof=POSTING SUMMARY"` // defaults to POSTING
}

// ChartEditRequest carries the mandatory justification of a structural edit.
type ChartEditRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// ReclassifyAccountRequest changes the type of an account.
type ReclassifyAccountRequest struct {
	AccountType domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
	ChartEditRequest
}

// ReparentAccountRequest moves an account in the hierarchy. An empty parent
// makes it a top-level account.
type ReparentAccountRequest struct {
	ParentAccountID string `json:"parentAccountID" binding:"omitempty,ledgerid"`
	ChartEditRequest
}

// SetAccountRoleRequest switches an account between POSTING and SUMMARY.
type SetAccountRoleRequest struct {
	Role domain.AccountRole `json:"role" binding:"required,oneof=POSTING SUMMARY"`
	ChartEditRequest
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID       string             `json:"accountID"`
	Name            string             `json:"name"`
	AccountType     domain.AccountType `json:"accountType"`
	NormalSide      domain.Side        `json:"normalSide"`
	CurrencyCode    string             `json:"currencyCode"`
	ParentAccountID string             `json:"parentAccountID"` // empty for top-level accounts
	Description     string             `json:"description"`
	Role            domain.AccountRole `json:"role"`
	IsActive        bool               `json:"isActive"`
	Version         int64              `json:"version"`
	CreatedAt       time.Time          `json:"createdAt"`
	CreatedBy       string             `json:"createdBy"`
	LastUpdatedAt   time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy   string             `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       acc.AccountID,
		Name:            acc.Name,
		AccountType:     acc.AccountType,
		NormalSide:      acc.AccountType.NormalSide(),
		CurrencyCode:    acc.CurrencyCode,
		ParentAccountID: acc.ParentAccountID,
		Description:     acc.Description,
		Role:            acc.Role,
		IsActive:        acc.IsActive,
		Version:         acc.Version,
		CreatedAt:       acc.CreatedAt,
		CreatedBy:       acc.CreatedBy,
		LastUpdatedAt:   acc.LastUpdatedAt,
		LastUpdatedBy:   acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// ListAccountsResponse wraps the chart listing.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// EligibilityResponse reports whether an account may receive legs.
type EligibilityResponse struct {
	AccountID string `json:"accountID"`
	Eligible  bool   `json:"eligible"`
	Rule      string `json:"rule,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

func ToEligibilityResponse(e domain.Eligibility) EligibilityResponse {
	return EligibilityResponse{AccountID: e.AccountID, Eligible: e.Eligible, Rule: e.Rule, Reason: e.Reason}
}

// ListChartEventsResponse wraps the audit trail of one account.
type ListChartEventsResponse struct {
	Events []domain.ChartEvent `json:"events"`
}
