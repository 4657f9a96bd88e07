package models

// Currency represents a supported currency.
type Currency struct {
	CurrencyCode string `db:"currency_code"`
	Symbol       string `db:"symbol"`
	Name         string `db:"name"`
	Precision    int    `db:"precision"`
	AuditFields
}
