package cli

import (
	"fmt"
	"time"

	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	"github.com/SscSPs/waqf_ledger/internal/middleware"
	"github.com/spf13/cobra"
)

// TokenOptions holds flags for token.
type TokenOptions struct {
	Secret string
	Issuer string
	UserID string
	Role   string
	TTL    time.Duration
}

// NewTokenCommand creates the token command, which signs a bearer token for local testing.
func NewTokenCommand() *cobra.Command {
	opts := &TokenOptions{}

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a bearer token for local testing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			role := domain.Role(opts.Role)
			if !role.Valid() {
				return fmt.Errorf("unknown role %q", opts.Role)
			}
			if opts.Secret == "" {
				return fmt.Errorf("--secret is required")
			}
			token, err := middleware.SignToken(opts.Secret, opts.Issuer, opts.UserID, role, opts.TTL)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.Secret, "secret", "", "HMAC secret (JWT_SECRET)")
	f.StringVar(&opts.Issuer, "issuer", "waqf-ledger", "token issuer (JWT_ISSUER)")
	f.StringVar(&opts.UserID, "user", "", "subject user id")
	f.StringVar(&opts.Role, "role", string(domain.RoleAccountant), "role claim (accountant|nazer|cashier|admin)")
	f.DurationVar(&opts.TTL, "ttl", time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
