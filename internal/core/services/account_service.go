package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/waqf_ledger/internal/apperrors"
	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/waqf_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/waqf_ledger/internal/core/ports/services"
	"github.com/SscSPs/waqf_ledger/internal/dto"
)

type accountService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new AccountService.
func NewAccountService(repos portsrepo.RepositoryProvider, now func() time.Time) portssvc.AccountSvcFacade {
	return &accountService{
		BaseService: newBaseService(now),
		txManager:   repos.TxManager,
		accountRepo: repos.AccountRepo,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, actor domain.Actor, req dto.CreateAccountRequest) (*domain.Account, error) {
	if err := s.Authorize(ctx, actor, domain.CapManageAccounts); err != nil {
		return nil, err
	}
	if err := s.ValidateRequest(req); err != nil {
		return nil, err
	}

	code := strings.TrimSpace(req.Code)
	accountType, parentCode, err := domain.ParseAccountCode(code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	now := s.Now()
	account := domain.Account{
		AccountID:      uuid.NewString(),
		Code:           code,
		Name:           strings.TrimSpace(req.Name),
		AccountType:    accountType,
		ParentCode:     parentCode,
		IsActive:       true,
		CurrentBalance: decimal.Zero,
		AuditFields:    domain.NewAuditFields(actor.UserID, now),
	}

	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if parentCode != "" {
			if _, err := s.accountRepo.FindAccountByCode(ctx, parentCode); err != nil {
				if isNotFound(err) {
					return fmt.Errorf("%w: parent account %s does not exist", apperrors.ErrValidation, parentCode)
				}
				return err
			}
		}
		return s.accountRepo.SaveAccount(ctx, account)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create account", slog.String("code", code))
		return nil, err
	}

	s.LogInfo(ctx, "Account created",
		slog.String("account_id", account.AccountID),
		slog.String("code", account.Code),
		slog.String("account_type", string(account.AccountType)))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("account not found: " + accountID)
		}
		s.LogError(ctx, err, "Failed to get account", slog.String("account_id", accountID))
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.accountRepo.ListAccounts(ctx, limit, offset)
}

// DeactivateAccount refuses accounts that still carry a balance.
func (s *accountService) DeactivateAccount(ctx context.Context, actor domain.Actor, accountID string) error {
	if err := s.Authorize(ctx, actor, domain.CapManageAccounts); err != nil {
		return err
	}
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		locked, err := s.accountRepo.FindAccountsByIDsForUpdate(ctx, []string{accountID})
		if err != nil {
			if isNotFound(err) {
				return apperrors.NewNotFoundError("account not found: " + accountID)
			}
			return err
		}
		account := locked[accountID]
		if !account.IsActive {
			return nil
		}
		if !account.CurrentBalance.IsZero() {
			return fmt.Errorf("%w: account %s has balance %s", apperrors.ErrConflict, account.Code, account.CurrentBalance.StringFixed(2))
		}
		return s.accountRepo.DeactivateAccount(ctx, accountID, actor.UserID, s.Now())
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to deactivate account", slog.String("account_id", accountID))
		return err
	}
	s.LogInfo(ctx, "Account deactivated", slog.String("account_id", accountID))
	return nil
}
