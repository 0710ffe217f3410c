package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Disbursement posting modes.
const (
	PostingConsolidated = "consolidated"
	PostingPerVoucher   = "per_voucher"
)

// LedgerAccounts holds the chart-of-accounts codes the engine posts to.
type LedgerAccounts struct {
	CashCode                 string
	DistributionsPayableCode string
	CorpusCode               string
}

// Config holds application configuration.
type Config struct {
	DatabaseURL        string
	Port               string
	IsProduction       bool
	JWTSecret          string
	JWTIssuer          string
	RateLimit          string // ulule format, e.g. "100-M"
	CORSAllowedOrigins []string
	StorageDriver      string

	DeductionCeiling        decimal.Decimal
	DisbursementPostingMode string
	Ledger                  LedgerAccounts

	PosthogAPIKey   string
	PosthogEndpoint string
	OTelEndpoint    string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "waqf-ledger")
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("STORAGE_DRIVER", StoragePostgres)
	v.SetDefault("DEDUCTION_CEILING_PERCENT", "50")
	v.SetDefault("DISBURSEMENT_POSTING_MODE", PostingConsolidated)
	v.SetDefault("LEDGER_CASH_ACCOUNT", "1.1.1")
	v.SetDefault("LEDGER_DISTRIBUTIONS_PAYABLE_ACCOUNT", "2.1.1")
	v.SetDefault("LEDGER_CORPUS_ACCOUNT", "3.1")
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("POSTHOG_ENDPOINT", "")
	v.SetDefault("OTEL_ENDPOINT", "")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DatabaseURL:             v.GetString("PGSQL_URL"),
		Port:                    v.GetString("PORT"),
		IsProduction:            v.GetBool("IS_PRODUCTION"),
		JWTSecret:               v.GetString("JWT_SECRET"),
		JWTIssuer:               v.GetString("JWT_ISSUER"),
		RateLimit:               v.GetString("RATE_LIMIT"),
		StorageDriver:           strings.ToLower(v.GetString("STORAGE_DRIVER")),
		DisbursementPostingMode: strings.ToLower(v.GetString("DISBURSEMENT_POSTING_MODE")),
		Ledger: LedgerAccounts{
			CashCode:                 v.GetString("LEDGER_CASH_ACCOUNT"),
			DistributionsPayableCode: v.GetString("LEDGER_DISTRIBUTIONS_PAYABLE_ACCOUNT"),
			CorpusCode:               v.GetString("LEDGER_CORPUS_ACCOUNT"),
		},
		PosthogAPIKey:   v.GetString("POSTHOG_API_KEY"),
		PosthogEndpoint: v.GetString("POSTHOG_ENDPOINT"),
		OTelEndpoint:    v.GetString("OTEL_ENDPOINT"),
	}

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	ceiling, err := decimal.NewFromString(v.GetString("DEDUCTION_CEILING_PERCENT"))
	if err != nil || !ceiling.IsPositive() || ceiling.GreaterThan(decimal.NewFromInt(100)) {
		return nil, fmt.Errorf("DEDUCTION_CEILING_PERCENT must be a number in (0, 100], got %q", v.GetString("DEDUCTION_CEILING_PERCENT"))
	}
	cfg.DeductionCeiling = ceiling

	switch cfg.StorageDriver {
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required when STORAGE_DRIVER=%s", StoragePostgres)
		}
	case StorageMemory:
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	switch cfg.DisbursementPostingMode {
	case PostingConsolidated, PostingPerVoucher:
	default:
		return nil, fmt.Errorf("unknown DISBURSEMENT_POSTING_MODE %q", cfg.DisbursementPostingMode)
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	return cfg, nil
}
