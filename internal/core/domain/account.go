package domain

import "regexp"

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// IsValid reports whether t is one of the five account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Income, Expense:
		return true
	}
	return false
}

// NormalSide returns the side that increases an account of this type.
func (t AccountType) NormalSide() Side {
	switch t {
	case Asset, Expense:
		return Debit
	default:
		return Credit
	}
}

// AccountRole is the eligibility tag of an account in the chart.
type AccountRole string

const (
	// RolePosting accounts receive journal legs.
	RolePosting AccountRole = "POSTING"
	// RoleSummary accounts only group children for aggregation.
	RoleSummary AccountRole = "SUMMARY"
)

func (r AccountRole) IsValid() bool {
	return r == RolePosting || r == RoleSummary
}

var accountIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,64}$`)

// IsAccountID reports whether id is an acceptable account identifier.
func IsAccountID(id string) bool {
	return accountIDPattern.MatchString(id)
}

// Account is an account registered in the chart of accounts. It never holds
// a balance; balances are folded from committed legs on demand.
type Account struct {
	AccountID       string      `json:"accountID"`
	Name            string      `json:"name"`
	AccountType     AccountType `json:"accountType"`
	CurrencyCode    string      `json:"currencyCode"` // fixed for the account's lifetime
	ParentAccountID string      `json:"parentAccountID,omitempty"`
	Description     string      `json:"description,omitempty"`
	Role            AccountRole `json:"role"`
	IsActive        bool        `json:"isActive"`
	Version         int64       `json:"version"` // bumped on every structural edit
	AuditFields
}

func (a Account) IsSummary() bool {
	return a.Role == RoleSummary
}

func (a Account) HasParent() bool {
	return a.ParentAccountID != ""
}
