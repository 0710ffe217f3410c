package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/waqf_ledger/internal/core/ports/services"
	"github.com/SscSPs/waqf_ledger/internal/core/services"
	"github.com/SscSPs/waqf_ledger/internal/middleware"
	"github.com/SscSPs/waqf_ledger/internal/platform/config"
	"github.com/SscSPs/waqf_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/waqf_ledger/pkg/database"
	"github.com/spf13/cobra"
)

// ClosePreviewOptions holds flags for close-preview.
type ClosePreviewOptions struct {
	FiscalYearID string
	DatabaseURL  string
	UserID       string
	Role         string
}

// NewClosePreviewCommand creates the close-preview command.
func NewClosePreviewCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ClosePreviewOptions{}

	cmd := &cobra.Command{
		Use:   "close-preview <fiscal-year-id>",
		Short: "Preview the closing of a fiscal year",
		Long: `Compute the closing summary of a fiscal year against the Postgres store.
Nothing is written. Connection settings come from the environment (PGSQL_URL)
unless --database-url is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.FiscalYearID = args[0]
			if opts.DatabaseURL != "" {
				if err := os.Setenv("PGSQL_URL", opts.DatabaseURL); err != nil {
					return err
				}
			}
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if cfg.StorageDriver != config.StoragePostgres {
				return fmt.Errorf("close-preview needs STORAGE_DRIVER=%s, got %s", config.StoragePostgres, cfg.StorageDriver)
			}

			ctx := middleware.WithLogger(cmd.Context(), slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil)))
			pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()

			svc := services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(pool), nil)
			return runClosePreview(ctx, cmd, rootOpts, opts, svc.FiscalYear)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.DatabaseURL, "database-url", "", "Postgres URL (overrides PGSQL_URL)")
	f.StringVar(&opts.UserID, "user", "waqfctl", "user id recorded as the caller")
	f.StringVar(&opts.Role, "role", string(domain.RoleAccountant), "caller role")

	return cmd
}

func runClosePreview(ctx context.Context, cmd *cobra.Command, rootOpts *RootOptions, opts *ClosePreviewOptions, fiscalYears portssvc.FiscalYearSvcFacade) error {
	actor := domain.Actor{UserID: opts.UserID, Role: domain.Role(opts.Role)}
	if !actor.Role.Valid() {
		return fmt.Errorf("unknown role %q", opts.Role)
	}

	summary, err := fiscalYears.CloseFiscalYear(ctx, actor, opts.FiscalYearID, true)
	if err != nil {
		return err
	}
	if rootOpts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), summary)
	}
	return writeClosingText(cmd.OutOrStdout(), summary)
}
