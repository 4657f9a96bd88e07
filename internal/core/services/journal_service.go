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
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
	"github.com/SscSPs/ledger_engine/internal/utils/pagination"
	"github.com/google/uuid"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// journalService implements the JournalSvcFacade interface. SubmitEntry and
// ReverseEntry share one validation pipeline and one append path.
type journalService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
	chart       portssvc.ChartReaderSvc
	currencySvc portssvc.CurrencyReaderSvc
}

// NewJournalService creates the journal entry service.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, chart portssvc.ChartReaderSvc, currencySvc portssvc.CurrencyReaderSvc, options ...ServiceOption) portssvc.JournalSvcFacade {
	return &journalService{
		BaseService: newBaseService(options...),
		journalRepo: journalRepo,
		chart:       chart,
		currencySvc: currencySvc,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

func (s *journalService) SubmitEntry(ctx context.Context, req dto.SubmitEntryRequest, actor string) (*domain.JournalEntry, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	if strings.HasPrefix(req.ExternalReference, domain.ReversalReferencePrefix) {
		return nil, fmt.Errorf("%w: references starting with %q are reserved for reversals",
			apperrors.ErrValidation, domain.ReversalReferencePrefix)
	}

	now := s.Now()
	occurredAt := now
	if req.OccurredAt != nil {
		occurredAt = req.OccurredAt.UTC()
	}
	candidate := domain.JournalEntry{
		Metadata: domain.EntryMetadata{
			Source:            req.Source,
			ExternalReference: req.ExternalReference,
			Description:       req.Description,
			OccurredAt:        occurredAt,
			CreatedBy:         actor,
		},
		Legs: make([]domain.Leg, 0, 2*len(req.Postings)+len(req.Legs)),
	}

	accounts := newAccountSet(s.chart)
	for i, p := range req.Postings {
		posting, err := s.buildPosting(ctx, accounts, p)
		if err != nil {
			s.GetLogger(ctx).Warn("Rejected journal entry",
				slog.String("source", req.Source),
				slog.String("external_reference", req.ExternalReference),
				slog.String("error", err.Error()))
			return nil, fmt.Errorf("posting %d: %w", i+1, err)
		}
		candidate.Legs = append(candidate.Legs, posting.Legs()...)
	}
	for _, l := range req.Legs {
		candidate.Legs = append(candidate.Legs, domain.Leg{
			AccountID: l.AccountID,
			Side:      l.Side,
			Amount:    domain.NewMoney(l.Amount, l.CurrencyCode),
			Memo:      l.Memo,
		})
	}

	entry, err := s.commit(ctx, candidate, accounts)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// buildPosting resolves both sides of a pair and runs it through
// domain.NewPosting.
func (s *journalService) buildPosting(ctx context.Context, accounts *accountSet, p dto.PostingRequest) (domain.Posting, error) {
	debit, err := accounts.get(ctx, p.DebitAccountID)
	if err != nil {
		return domain.Posting{}, err
	}
	credit, err := accounts.get(ctx, p.CreditAccountID)
	if err != nil {
		return domain.Posting{}, err
	}
	return domain.NewPosting(debit, credit, domain.NewMoney(p.Amount, p.CurrencyCode), p.Memo)
}

func (s *journalService) ReverseEntry(ctx context.Context, entryID string, req dto.ReverseEntryRequest, actor string) (*domain.JournalEntry, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	original, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("cannot reverse entry %s: %w", entryID, err)
	}
	if original.IsReversal() {
		return nil, fmt.Errorf("%w: entry %s is itself a reversal of %s; submit a new entry instead",
			apperrors.ErrValidation, entryID, original.ReversalOf)
	}
	if existing, err := s.journalRepo.FindReversalOf(ctx, entryID); err == nil {
		return nil, fmt.Errorf("cannot reverse entry %s, reversed by %s: %w", entryID, existing.EntryID, apperrors.ErrAlreadyReversed)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check reversal of %s: %w", entryID, err)
	}

	candidate := domain.JournalEntry{
		Metadata: domain.EntryMetadata{
			Source:            original.Metadata.Source,
			ExternalReference: domain.ReversalReferencePrefix + original.EntryID,
			Description:       fmt.Sprintf("Reversal of entry %s: %s", original.EntryID, req.Reason),
			OccurredAt:        s.Now(),
			CreatedBy:         actor,
		},
		Legs:           make([]domain.Leg, len(original.Legs)),
		ReversalOf:     original.EntryID,
		ReversalReason: req.Reason,
	}
	for i, l := range original.Legs {
		candidate.Legs[i] = l.Reversed()
	}

	entry, err := s.commit(ctx, candidate, newAccountSet(s.chart))
	if err != nil {
		// A racing reversal can win between the check above and the append.
		if errors.Is(err, apperrors.ErrDuplicate) {
			if existing, ferr := s.journalRepo.FindReversalOf(ctx, entryID); ferr == nil {
				return nil, fmt.Errorf("cannot reverse entry %s, reversed by %s: %w", entryID, existing.EntryID, apperrors.ErrAlreadyReversed)
			}
		}
		return nil, err
	}
	s.LogInfo(ctx, "Journal entry reversed",
		slog.String("original_entry_id", original.EntryID),
		slog.String("reversal_entry_id", entry.EntryID))
	return entry, nil
}

// commit runs the validation pipeline on a candidate and appends it. Nothing
// is written unless every check passes.
func (s *journalService) commit(ctx context.Context, candidate domain.JournalEntry, accounts *accountSet) (*domain.JournalEntry, error) {
	logger := s.GetLogger(ctx).With(
		slog.String("source", candidate.Metadata.Source),
		slog.String("external_reference", candidate.Metadata.ExternalReference))

	if err := s.validateLegs(ctx, candidate.Legs, accounts); err != nil {
		if errors.Is(err, apperrors.ErrImbalance) {
			s.LogLedgerViolation(ctx, err, "Rejected unbalanced journal entry",
				slog.String("source", candidate.Metadata.Source),
				slog.String("external_reference", candidate.Metadata.ExternalReference))
		} else {
			logger.Warn("Rejected journal entry", slog.String("error", err.Error()))
		}
		return nil, err
	}

	candidate.EntryID = uuid.NewString()
	candidate.Status = domain.StatusCommitted
	candidate.CommittedAt = s.Now()

	committed, err := s.journalRepo.AppendEntry(ctx, candidate)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrAlreadyReversed):
			logger.Warn("Journal entry append refused", slog.String("error", err.Error()))
		default:
			s.LogError(ctx, err, "Failed to append journal entry",
				slog.String("source", candidate.Metadata.Source),
				slog.String("external_reference", candidate.Metadata.ExternalReference))
		}
		return nil, fmt.Errorf("failed to commit journal entry: %w", err)
	}

	logger.Info("Journal entry committed",
		slog.String("entry_id", committed.EntryID),
		slog.Int64("sequence", committed.Sequence),
		slog.Int("legs", len(committed.Legs)))
	return committed, nil
}

// validateLegs checks leg count, accounts, eligibility, sides, currencies and
// per-currency balance, in that order.
func (s *journalService) validateLegs(ctx context.Context, legs []domain.Leg, accounts *accountSet) error {
	if len(legs) < 2 {
		return fmt.Errorf("%w: a journal entry needs at least two legs, got %d", apperrors.ErrValidation, len(legs))
	}

	for i, l := range legs {
		if !l.Side.IsValid() {
			return fmt.Errorf("%w: leg %d has invalid side %q", apperrors.ErrValidation, i+1, l.Side)
		}
		if !l.Amount.IsPositive() {
			return fmt.Errorf("%w: leg %d amount must be greater than zero, got %s", apperrors.ErrValidation, i+1, l.Amount.Amount)
		}
	}

	// An account is either debited or credited within one entry.
	sides := make(map[string]domain.Side)
	for _, l := range legs {
		if _, err := accounts.get(ctx, l.AccountID); err != nil {
			return err
		}
		if side, ok := sides[l.AccountID]; ok && side != l.Side {
			return fmt.Errorf("%w: account %s is both debited and credited in one entry", apperrors.ErrValidation, l.AccountID)
		}
		sides[l.AccountID] = l.Side
	}
	if len(sides) < 2 {
		return fmt.Errorf("%w: a journal entry must touch at least two accounts", apperrors.ErrValidation)
	}

	currencies := make(map[string]*domain.Currency)
	for i, l := range legs {
		account := accounts.byID[l.AccountID]
		if l.Amount.Currency != account.CurrencyCode {
			return fmt.Errorf("%w: leg %d currency %s does not match account %s currency %s",
				apperrors.ErrValidation, i+1, l.Amount.Currency, account.AccountID, account.CurrencyCode)
		}
		currency, ok := currencies[l.Amount.Currency]
		if !ok {
			c, err := s.currencySvc.ValidateCurrency(ctx, l.Amount.Currency)
			if err != nil {
				return err
			}
			currency = c
			currencies[l.Amount.Currency] = c
		}
		if !l.Amount.FitsPrecision(currency.Precision) {
			return fmt.Errorf("%w: leg %d amount %s exceeds %s precision of %d digits",
				apperrors.ErrValidation, i+1, l.Amount.Amount, currency.CurrencyCode, currency.Precision)
		}
	}

	return accounting.ValidateBuckets(legs)
}

// accountSet resolves each account of one entry once and applies the
// posting policy to it.
type accountSet struct {
	chart portssvc.ChartReaderSvc
	byID  map[string]domain.Account
}

func newAccountSet(chart portssvc.ChartReaderSvc) *accountSet {
	return &accountSet{chart: chart, byID: make(map[string]domain.Account)}
}

func (a *accountSet) get(ctx context.Context, accountID string) (domain.Account, error) {
	if account, ok := a.byID[accountID]; ok {
		return account, nil
	}
	account, err := a.chart.Resolve(ctx, accountID)
	if err != nil {
		return domain.Account{}, err
	}
	if e := evaluatePostingPolicy(*account); !e.Eligible {
		return domain.Account{}, fmt.Errorf("%w: account %s is not eligible for postings: %s", apperrors.ErrValidation, account.AccountID, e.Reason)
	}
	a.byID[accountID] = *account
	return *account, nil
}

func (s *journalService) GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("journal entry %s: %w", entryID, err)
	}
	return entry, nil
}

func (s *journalService) FindEntryByReference(ctx context.Context, source, reference string) (*domain.JournalEntry, error) {
	if source == "" || reference == "" {
		return nil, fmt.Errorf("%w: source and reference are required", apperrors.ErrValidation)
	}
	entry, err := s.journalRepo.FindEntryByReference(ctx, source, reference)
	if err != nil {
		return nil, fmt.Errorf("journal entry %s/%s: %w", source, reference, err)
	}
	return entry, nil
}

func (s *journalService) ListEntries(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	var after int64
	if params.NextToken != "" {
		seq, err := pagination.DecodeSequenceToken(params.NextToken, params.Source)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		after = seq
	}

	entries, err := s.journalRepo.ListEntries(ctx, domain.EntryFilter{Source: params.Source, AfterSequence: after, Limit: limit + 1})
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}

	resp := &dto.ListJournalsResponse{Entries: make([]dto.JournalEntryResponse, 0, limit)}
	if len(entries) > limit {
		entries = entries[:limit]
		token := pagination.EncodeSequenceToken(entries[limit-1].Sequence, params.Source)
		resp.NextToken = &token
	}
	for i := range entries {
		resp.Entries = append(resp.Entries, dto.ToJournalEntryResponse(&entries[i]))
	}
	s.LogDebug(ctx, "Listed journal entries", slog.Int("count", len(resp.Entries)), slog.String("source", params.Source))
	return resp, nil
}
