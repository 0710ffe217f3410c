package services

import (
	"context"

	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	"github.com/SscSPs/waqf_ledger/internal/dto"
)

// AccountReaderSvc defines read operations for the chart of accounts
type AccountReaderSvc interface {
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for the chart of accounts
type AccountWriterSvc interface {
	// CreateAccount adds a node to the chart. The parent code must already exist.
	CreateAccount(ctx context.Context, actor domain.Actor, req dto.CreateAccountRequest) (*domain.Account, error)

	// DeactivateAccount marks an account as inactive. Inactive accounts reject new lines.
	DeactivateAccount(ctx context.Context, actor domain.Actor, accountID string) error
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
