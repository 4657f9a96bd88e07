package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// balanceService folds committed legs into balance views. It owns no data
// and never writes.
type balanceService struct {
	BaseService
	legs  portsrepo.LegReader
	chart portssvc.ChartReaderSvc
}

// NewBalanceService creates the balance read model.
func NewBalanceService(legs portsrepo.LegReader, chart portssvc.ChartReaderSvc, options ...ServiceOption) portssvc.BalanceSvc {
	return &balanceService{
		BaseService: newBaseService(options...),
		legs:        legs,
		chart:       chart,
	}
}

var _ portssvc.BalanceSvc = (*balanceService)(nil)

func (s *balanceService) asOfOrNow(asOf time.Time) time.Time {
	if asOf.IsZero() {
		return s.Now()
	}
	return asOf.UTC()
}

func (s *balanceService) AccountBalance(ctx context.Context, accountID string, asOf time.Time) (*domain.AccountBalance, error) {
	account, err := s.chart.Resolve(ctx, accountID)
	if err != nil {
		return nil, err
	}
	asOf = s.asOfOrNow(asOf)

	legs, err := s.legs.ListLegs(ctx, domain.LegFilter{AccountID: accountID, AsOf: asOf})
	if err != nil {
		return nil, fmt.Errorf("failed to read legs of account %s: %w", accountID, err)
	}
	totals := accounting.FoldAccount(accountID, legs)
	side := account.AccountType.NormalSide()

	return &domain.AccountBalance{
		AccountID:    account.AccountID,
		AccountType:  account.AccountType,
		NormalSide:   side,
		Balance:      domain.NewMoney(accounting.SignedBalance(side, totals.Debits, totals.Credits), account.CurrencyCode),
		Debits:       domain.NewMoney(totals.Debits, account.CurrencyCode),
		Credits:      domain.NewMoney(totals.Credits, account.CurrencyCode),
		AsOf:         asOf,
		LastPostedAt: totals.LastPostedAt,
	}, nil
}

// PeriodBalance reads the legs up to `to` once and splits them at `from`,
// so opening and movement come from the same view of the journal.
func (s *balanceService) PeriodBalance(ctx context.Context, accountID string, from, to time.Time) (*domain.PeriodBalance, error) {
	account, err := s.chart.Resolve(ctx, accountID)
	if err != nil {
		return nil, err
	}
	from = from.UTC()
	to = s.asOfOrNow(to)
	if from.After(to) {
		return nil, fmt.Errorf("%w: period start %s is after end %s", apperrors.ErrValidation,
			from.Format(time.RFC3339), to.Format(time.RFC3339))
	}

	legs, err := s.legs.ListLegs(ctx, domain.LegFilter{AccountID: accountID, AsOf: to})
	if err != nil {
		return nil, fmt.Errorf("failed to read legs of account %s: %w", accountID, err)
	}

	var before, within []domain.CommittedLeg
	for _, l := range legs {
		if l.CommittedAt.After(from) {
			within = append(within, l)
		} else {
			before = append(before, l)
		}
	}

	side := account.AccountType.NormalSide()
	opening := accounting.FoldAccount(accountID, before)
	movement := accounting.FoldAccount(accountID, within)
	openingAmt := accounting.SignedBalance(side, opening.Debits, opening.Credits)
	net := accounting.SignedBalance(side, movement.Debits, movement.Credits)
	cur := account.CurrencyCode

	return &domain.PeriodBalance{
		AccountID:   account.AccountID,
		AccountType: account.AccountType,
		NormalSide:  side,
		From:        from,
		To:          to,
		Opening:     domain.NewMoney(openingAmt, cur),
		Debits:      domain.NewMoney(movement.Debits, cur),
		Credits:     domain.NewMoney(movement.Credits, cur),
		Net:         domain.NewMoney(net, cur),
		Closing:     domain.NewMoney(openingAmt.Add(net), cur),
	}, nil
}

func (s *balanceService) TrialBalance(ctx context.Context, params portssvc.TrialBalanceParams) (*domain.TrialBalance, error) {
	asOf := s.asOfOrNow(params.AsOf)

	snapshot, err := s.legs.LoadSnapshot(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger snapshot: %w", err)
	}
	if len(snapshot.Accounts) == 0 {
		return nil, fmt.Errorf("%w: the chart of accounts is empty", apperrors.ErrValidation)
	}

	byID := make(map[string]domain.Account, len(snapshot.Accounts))
	for _, a := range snapshot.Accounts {
		byID[a.AccountID] = a
	}
	include := func(domain.Account) bool { return true }
	if len(params.AccountIDs) > 0 {
		wanted := make(map[string]struct{}, len(params.AccountIDs))
		for _, id := range params.AccountIDs {
			if _, ok := byID[id]; !ok {
				return nil, fmt.Errorf("account %s: %w", id, apperrors.ErrNotFound)
			}
			wanted[id] = struct{}{}
		}
		include = func(a domain.Account) bool {
			_, ok := wanted[a.AccountID]
			return ok
		}
	}
	if params.CurrencyCode != "" {
		prev := include
		include = func(a domain.Account) bool { return prev(a) && a.CurrencyCode == params.CurrencyCode }
	}

	folded := accounting.FoldAll(snapshot.Legs)

	// The reconciliation covers every account, whatever rows are returned.
	ledgerTotals := make(map[string]*domain.CurrencyTotal)
	for id, t := range folded {
		account, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: committed legs reference account %s missing from the chart", apperrors.ErrCalculation, id)
		}
		cur := account.CurrencyCode
		debitCol, creditCol := accounting.SplitColumns(t.Debits, t.Credits)
		total, ok := ledgerTotals[cur]
		if !ok {
			total = &domain.CurrencyTotal{CurrencyCode: cur, TotalDebits: decimal.Zero, TotalCredits: decimal.Zero}
			ledgerTotals[cur] = total
		}
		total.TotalDebits = total.TotalDebits.Add(debitCol)
		total.TotalCredits = total.TotalCredits.Add(creditCol)
	}
	for cur, total := range ledgerTotals {
		if !total.TotalDebits.Equal(total.TotalCredits) {
			err := fmt.Errorf("%w: %s total debits %s differ from total credits %s as of %s", apperrors.ErrCalculation,
				cur, total.TotalDebits, total.TotalCredits, asOf.Format(time.RFC3339Nano))
			s.LogLedgerViolation(ctx, err, "Trial balance failed to reconcile",
				slog.String("currency", cur), slog.Time("as_of", asOf))
			return nil, err
		}
	}

	accounts := make([]domain.Account, 0, len(snapshot.Accounts))
	for _, a := range snapshot.Accounts {
		if include(a) {
			accounts = append(accounts, a)
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].AccountID < accounts[j].AccountID })

	tb := &domain.TrialBalance{
		AsOf:        asOf,
		GeneratedAt: s.Now(),
		Rows:        make([]domain.TrialBalanceRow, 0, len(accounts)),
		Totals:      []domain.CurrencyTotal{},
	}
	rowTotals := make(map[string]*domain.CurrencyTotal)
	for _, a := range accounts {
		t, ok := folded[a.AccountID]
		if !ok {
			t = accounting.AccountTotals{Debits: decimal.Zero, Credits: decimal.Zero}
		}
		debitCol, creditCol := accounting.SplitColumns(t.Debits, t.Credits)
		side := a.AccountType.NormalSide()
		tb.Rows = append(tb.Rows, domain.TrialBalanceRow{
			AccountID:    a.AccountID,
			AccountName:  a.Name,
			AccountType:  a.AccountType,
			CurrencyCode: a.CurrencyCode,
			Debit:        debitCol,
			Credit:       creditCol,
			Balance:      domain.NewMoney(accounting.SignedBalance(side, t.Debits, t.Credits), a.CurrencyCode),
		})
		total, ok := rowTotals[a.CurrencyCode]
		if !ok {
			total = &domain.CurrencyTotal{CurrencyCode: a.CurrencyCode, TotalDebits: decimal.Zero, TotalCredits: decimal.Zero}
			rowTotals[a.CurrencyCode] = total
		}
		total.TotalDebits = total.TotalDebits.Add(debitCol)
		total.TotalCredits = total.TotalCredits.Add(creditCol)
	}
	for _, total := range rowTotals {
		tb.Totals = append(tb.Totals, *total)
	}
	sort.Slice(tb.Totals, func(i, j int) bool { return tb.Totals[i].CurrencyCode < tb.Totals[j].CurrencyCode })

	s.LogDebug(ctx, "Trial balance computed", slog.Int("rows", len(tb.Rows)), slog.Time("as_of", asOf))
	return tb, nil
}
