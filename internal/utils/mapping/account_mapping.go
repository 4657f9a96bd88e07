package mapping

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	var parent *string
	if d.ParentAccountID != "" {
		p := d.ParentAccountID
		parent = &p
	}
	return models.Account{
		AccountID:       d.AccountID,
		Name:            d.Name,
		AccountType:     string(d.AccountType),
		CurrencyCode:    d.CurrencyCode,
		ParentAccountID: parent,
		Description:     d.Description,
		Role:            string(d.Role),
		IsActive:        d.IsActive,
		Version:         d.Version,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	a := domain.Account{
		AccountID:    m.AccountID,
		Name:         m.Name,
		AccountType:  domain.AccountType(m.AccountType),
		CurrencyCode: m.CurrencyCode,
		Description:  m.Description,
		Role:         domain.AccountRole(m.Role),
		IsActive:     m.IsActive,
		Version:      m.Version,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
	if m.ParentAccountID != nil {
		a.ParentAccountID = *m.ParentAccountID
	}
	return a
}

// ToDomainAccountSlice converts model accounts to domain accounts.
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}

// ToModelChartEvent converts a domain ChartEvent to its row shape.
func ToModelChartEvent(d domain.ChartEvent) models.ChartEvent {
	return models.ChartEvent{
		EventID:    d.EventID,
		AccountID:  d.AccountID,
		Kind:       string(d.Kind),
		Field:      d.Field,
		OldValue:   d.OldValue,
		NewValue:   d.NewValue,
		Reason:     d.Reason,
		Actor:      d.Actor,
		OccurredAt: d.OccurredAt,
	}
}

func ToDomainChartEvent(m models.ChartEvent) domain.ChartEvent {
	return domain.ChartEvent{
		EventID:    m.EventID,
		AccountID:  m.AccountID,
		Kind:       domain.ChartEventKind(m.Kind),
		Field:      m.Field,
		OldValue:   m.OldValue,
		NewValue:   m.NewValue,
		Reason:     m.Reason,
		Actor:      m.Actor,
		OccurredAt: m.OccurredAt,
	}
}
