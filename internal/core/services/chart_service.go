package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/google/uuid"
)

// maxHierarchyDepth bounds the parent walk used for cycle detection.
const maxHierarchyDepth = 64

// chartService implements the ChartSvcFacade interface
type chartService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	currencySvc portssvc.CurrencyReaderSvc
}

// NewChartService creates the chart of accounts governance service.
func NewChartService(accountRepo portsrepo.AccountRepositoryFacade, currencySvc portssvc.CurrencyReaderSvc, options ...ServiceOption) portssvc.ChartSvcFacade {
	return &chartService{
		BaseService: newBaseService(options...),
		accountRepo: accountRepo,
		currencySvc: currencySvc,
	}
}

var _ portssvc.ChartSvcFacade = (*chartService)(nil)

func (s *chartService) RegisterAccount(ctx context.Context, req dto.RegisterAccountRequest, actor string) (*domain.Account, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	if req.Role == "" {
		req.Role = domain.RolePosting
	}

	if _, err := s.currencySvc.ValidateCurrency(ctx, req.CurrencyCode); err != nil {
		return nil, fmt.Errorf("cannot register account %s: %w", req.AccountID, err)
	}

	if req.ParentAccountID != "" {
		if err := s.checkParent(ctx, req.ParentAccountID); err != nil {
			return nil, fmt.Errorf("cannot register account %s: %w", req.AccountID, err)
		}
	}

	if _, err := s.accountRepo.FindAccountByID(ctx, req.AccountID); err == nil {
		return nil, fmt.Errorf("%w: %w: account %s", apperrors.ErrValidation, apperrors.ErrDuplicate, req.AccountID)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check account %s: %w", req.AccountID, err)
	}

	now := s.Now()
	account := domain.Account{
		AccountID:       req.AccountID,
		Name:            req.Name,
		AccountType:     req.AccountType,
		CurrencyCode:    req.CurrencyCode,
		ParentAccountID: req.ParentAccountID,
		Description:     req.Description,
		Role:            req.Role,
		IsActive:        true,
		Version:         1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}
	event := domain.ChartEvent{
		EventID:    uuid.NewString(),
		AccountID:  account.AccountID,
		Kind:       domain.EventRegistered,
		NewValue:   fmt.Sprintf("%s %s %s", account.AccountType, account.CurrencyCode, account.Role),
		Reason:     "registration",
		Actor:      actor,
		OccurredAt: now,
	}

	if err := s.accountRepo.SaveAccount(ctx, account, event); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
		}
		s.LogError(ctx, err, "Failed to save account", slog.String("account_id", account.AccountID))
		return nil, fmt.Errorf("failed to register account %s: %w", account.AccountID, err)
	}

	s.LogInfo(ctx, "Account registered",
		slog.String("account_id", account.AccountID),
		slog.String("account_type", string(account.AccountType)),
		slog.String("currency_code", account.CurrencyCode),
		slog.String("role", string(account.Role)))
	return &account, nil
}

// checkParent verifies that parentID exists and can hold children.
func (s *chartService) checkParent(ctx context.Context, parentID string) error {
	parent, err := s.accountRepo.FindAccountByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: parent account %s does not exist", apperrors.ErrValidation, parentID)
		}
		return fmt.Errorf("failed to find parent account %s: %w", parentID, err)
	}
	if !parent.IsSummary() {
		return fmt.Errorf("%w: parent account %s is not a summary account", apperrors.ErrValidation, parentID)
	}
	if !parent.IsActive {
		return fmt.Errorf("%w: parent account %s is deactivated", apperrors.ErrValidation, parentID)
	}
	return nil
}

func (s *chartService) Resolve(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", accountID, err)
	}
	return account, nil
}

func (s *chartService) IsPostingEligible(ctx context.Context, accountID string) (domain.Eligibility, error) {
	account, err := s.Resolve(ctx, accountID)
	if err != nil {
		return domain.Eligibility{}, err
	}
	return evaluatePostingPolicy(*account), nil
}

func (s *chartService) MakePosting(ctx context.Context, debitAccountID, creditAccountID string, amount domain.Money, memo string) (domain.Posting, error) {
	accounts := make([]domain.Account, 0, 2)
	for _, id := range []string{debitAccountID, creditAccountID} {
		account, err := s.Resolve(ctx, id)
		if err != nil {
			return domain.Posting{}, err
		}
		if e := evaluatePostingPolicy(*account); !e.Eligible {
			return domain.Posting{}, fmt.Errorf("%w: account %s is not eligible for postings: %s", apperrors.ErrValidation, id, e.Reason)
		}
		accounts = append(accounts, *account)
	}

	posting, err := domain.NewPosting(accounts[0], accounts[1], amount, memo)
	if err != nil {
		return domain.Posting{}, err
	}

	currency, err := s.currencySvc.ValidateCurrency(ctx, amount.Currency)
	if err != nil {
		return domain.Posting{}, err
	}
	if !amount.FitsPrecision(currency.Precision) {
		return domain.Posting{}, fmt.Errorf("%w: amount %s exceeds %s precision of %d digits",
			apperrors.ErrValidation, amount.Amount, currency.CurrencyCode, currency.Precision)
	}
	return posting, nil
}

func (s *chartService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

func (s *chartService) ListChildren(ctx context.Context, accountID string) ([]domain.Account, error) {
	if _, err := s.Resolve(ctx, accountID); err != nil {
		return nil, err
	}
	children, err := s.accountRepo.ListChildAccounts(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list children of %s: %w", accountID, err)
	}
	if children == nil {
		return []domain.Account{}, nil
	}
	return children, nil
}

func (s *chartService) ListChartEvents(ctx context.Context, accountID string) ([]domain.ChartEvent, error) {
	if _, err := s.Resolve(ctx, accountID); err != nil {
		return nil, err
	}
	events, err := s.accountRepo.ListChartEvents(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chart events of %s: %w", accountID, err)
	}
	return events, nil
}

func (s *chartService) Reclassify(ctx context.Context, accountID string, req dto.ReclassifyAccountRequest, actor string) (*domain.Account, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	return s.applyEdit(ctx, accountID, req.Reason, actor, func(acc *domain.Account) (domain.ChartEvent, error) {
		if acc.AccountType == req.AccountType {
			return domain.ChartEvent{}, fmt.Errorf("%w: account %s is already of type %s", apperrors.ErrValidation, acc.AccountID, req.AccountType)
		}
		event := domain.ChartEvent{Kind: domain.EventReclassified, Field: "accountType", OldValue: string(acc.AccountType), NewValue: string(req.AccountType)}
		acc.AccountType = req.AccountType
		return event, nil
	})
}

func (s *chartService) Reparent(ctx context.Context, accountID string, req dto.ReparentAccountRequest, actor string) (*domain.Account, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	return s.applyEdit(ctx, accountID, req.Reason, actor, func(acc *domain.Account) (domain.ChartEvent, error) {
		if acc.ParentAccountID == req.ParentAccountID {
			return domain.ChartEvent{}, fmt.Errorf("%w: account %s already has that parent", apperrors.ErrValidation, acc.AccountID)
		}
		if req.ParentAccountID != "" {
			if req.ParentAccountID == acc.AccountID {
				return domain.ChartEvent{}, fmt.Errorf("%w: account %s cannot be its own parent", apperrors.ErrValidation, acc.AccountID)
			}
			if err := s.checkParent(ctx, req.ParentAccountID); err != nil {
				return domain.ChartEvent{}, err
			}
			if err := s.checkNoCycle(ctx, acc.AccountID, req.ParentAccountID); err != nil {
				return domain.ChartEvent{}, err
			}
		}
		event := domain.ChartEvent{Kind: domain.EventReparented, Field: "parentAccountID", OldValue: acc.ParentAccountID, NewValue: req.ParentAccountID}
		acc.ParentAccountID = req.ParentAccountID
		return event, nil
	})
}

// checkNoCycle walks up from newParentID and fails if it reaches accountID.
func (s *chartService) checkNoCycle(ctx context.Context, accountID, newParentID string) error {
	current := newParentID
	for depth := 0; current != ""; depth++ {
		if current == accountID {
			return fmt.Errorf("%w: moving %s under %s would create a cycle", apperrors.ErrValidation, accountID, newParentID)
		}
		if depth >= maxHierarchyDepth {
			return fmt.Errorf("%w: account hierarchy deeper than %d levels", apperrors.ErrValidation, maxHierarchyDepth)
		}
		parent, err := s.accountRepo.FindAccountByID(ctx, current)
		if err != nil {
			return fmt.Errorf("failed to walk hierarchy at %s: %w", current, err)
		}
		current = parent.ParentAccountID
	}
	return nil
}

func (s *chartService) SetRole(ctx context.Context, accountID string, req dto.SetAccountRoleRequest, actor string) (*domain.Account, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	return s.applyEdit(ctx, accountID, req.Reason, actor, func(acc *domain.Account) (domain.ChartEvent, error) {
		if acc.Role == req.Role {
			return domain.ChartEvent{}, fmt.Errorf("%w: account %s already has role %s", apperrors.ErrValidation, acc.AccountID, req.Role)
		}
		if req.Role == domain.RolePosting {
			children, err := s.accountRepo.ListChildAccounts(ctx, acc.AccountID)
			if err != nil {
				return domain.ChartEvent{}, fmt.Errorf("failed to list children of %s: %w", acc.AccountID, err)
			}
			if len(children) > 0 {
				return domain.ChartEvent{}, fmt.Errorf("%w: account %s has %d children and must stay a summary account", apperrors.ErrValidation, acc.AccountID, len(children))
			}
		}
		event := domain.ChartEvent{Kind: domain.EventRoleChanged, Field: "role", OldValue: string(acc.Role), NewValue: string(req.Role)}
		acc.Role = req.Role
		return event, nil
	})
}

func (s *chartService) Deactivate(ctx context.Context, accountID string, req dto.ChartEditRequest, actor string) (*domain.Account, error) {
	return s.setActive(ctx, accountID, false, req, actor)
}

func (s *chartService) Reactivate(ctx context.Context, accountID string, req dto.ChartEditRequest, actor string) (*domain.Account, error) {
	return s.setActive(ctx, accountID, true, req, actor)
}

func (s *chartService) setActive(ctx context.Context, accountID string, active bool, req dto.ChartEditRequest, actor string) (*domain.Account, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	return s.applyEdit(ctx, accountID, req.Reason, actor, func(acc *domain.Account) (domain.ChartEvent, error) {
		if acc.IsActive == active {
			return domain.ChartEvent{}, fmt.Errorf("%w: account %s active flag is already %t", apperrors.ErrValidation, acc.AccountID, active)
		}
		kind := domain.EventDeactivated
		if active {
			kind = domain.EventReactivated
		}
		event := domain.ChartEvent{Kind: kind, Field: "isActive", OldValue: fmt.Sprint(acc.IsActive), NewValue: fmt.Sprint(active)}
		acc.IsActive = active
		return event, nil
	})
}

// applyEdit loads an account, lets mutate change a copy and describe the
// change, then stores the copy and its event under an optimistic version check.
func (s *chartService) applyEdit(ctx context.Context, accountID, reason, actor string, mutate func(acc *domain.Account) (domain.ChartEvent, error)) (*domain.Account, error) {
	current, err := s.Resolve(ctx, accountID)
	if err != nil {
		return nil, err
	}
	updated := *current
	event, err := mutate(&updated)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	updated.Version = current.Version + 1
	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = actor
	event.EventID = uuid.NewString()
	event.AccountID = accountID
	event.Reason = reason
	event.Actor = actor
	event.OccurredAt = now

	if err := s.accountRepo.UpdateAccount(ctx, updated, current.Version, event); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		}
		return nil, fmt.Errorf("failed to apply %s to account %s: %w", event.Kind, accountID, err)
	}

	s.LogInfo(ctx, "Chart of accounts edited",
		slog.String("account_id", accountID),
		slog.String("kind", string(event.Kind)),
		slog.String("old_value", event.OldValue),
		slog.String("new_value", event.NewValue),
		slog.String("actor", actor))
	return &updated, nil
}
