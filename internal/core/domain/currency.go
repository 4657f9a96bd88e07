package domain

import "regexp"

var currencyCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)

// Currency represents a supported currency in the domain.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // ISO 4217 code, e.g. "USD"
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	Precision    int    `json:"precision"` // number of minor unit digits
	AuditFields
}

// IsCurrencyCode reports whether code is shaped like an ISO 4217 alpha code.
func IsCurrencyCode(code string) bool {
	return currencyCodePattern.MatchString(code)
}
