package cli_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/waqf_ledger/internal/apperrors"
	"github.com/SscSPs/waqf_ledger/internal/cli"
	"github.com/SscSPs/waqf_ledger/internal/core/domain"
	"github.com/SscSPs/waqf_ledger/internal/middleware"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCalcFromFlagsText(t *testing.T) {
	out, err := execute(t, "calc",
		"--revenues", "100000", "--expenses", "0",
		"--maintenance", "10", "--nazer", "10", "--charity", "5",
		"-b", "b1:son", "-b", "b2:daughter")
	require.NoError(t, err)

	assert.Contains(t, out, "76950.00")
	assert.Contains(t, out, "38475.00")
	assert.Contains(t, out, "Nazer share (10%)")
}

func TestCalcFromFileJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.yaml")
	doc := `
period_start: "2025-01-01"
period_end: "2025-03-31"
revenues: "100000"
expenses: "0"
settings:
  maintenance_percentage: "10"
  nazer_percentage: "10"
  waqif_charity_percentage: "5"
  distribution_rule: equal
beneficiaries:
  - id: b1
    type: ولد
  - id: b2
    type: بنت
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	out, err := execute(t, "--format", "json", "calc", "-f", path)
	require.NoError(t, err)

	var preview domain.DistributionPreview
	require.NoError(t, json.Unmarshal([]byte(out), &preview))
	assert.True(t, preview.DistributableAmount.Equal(decimal.NewFromInt(76950)), preview.DistributableAmount.String())
	require.Len(t, preview.Allocations, 2)
	assert.Equal(t, domain.BeneficiarySon, preview.Allocations[0].BeneficiaryType)
	assert.Equal(t, domain.BeneficiaryDaughter, preview.Allocations[1].BeneficiaryType)
	assert.Equal(t, 2025, preview.Period.Start.Year())
}

func TestCalcFlagOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.yaml")
	doc := "revenues: \"100000\"\nsettings:\n  distribution_rule: equal\nbeneficiaries:\n  - id: b1\n    type: son\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	out, err := execute(t, "--format", "json", "calc", "-f", path, "--revenues", "500")
	require.NoError(t, err)

	var preview domain.DistributionPreview
	require.NoError(t, json.Unmarshal([]byte(out), &preview))
	assert.True(t, preview.NetRevenues.Equal(decimal.NewFromInt(500)))
	assert.True(t, preview.Allocations[0].Amount.Equal(decimal.NewFromInt(500)))
}

func TestCalcCeilingExceeded(t *testing.T) {
	_, err := execute(t, "calc", "--revenues", "1000", "--maintenance", "30", "--nazer", "30", "-b", "b1:son")

	var calcErr *apperrors.CalculationError
	require.True(t, errors.As(err, &calcErr), "got %v", err)
	assert.Equal(t, apperrors.DeductionCeilingExceeded, calcErr.Reason)
}

func TestCalcRejectsBadNumber(t *testing.T) {
	_, err := execute(t, "calc", "--revenues", "lots", "-b", "b1:son")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "revenues")
}

func TestInvalidFormat(t *testing.T) {
	_, err := execute(t, "--format", "xml", "calc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestTokenCommand(t *testing.T) {
	out, err := execute(t, "token", "--secret", "s3cret", "--issuer", "test-issuer", "--user", "u-nazer", "--role", "nazer")
	require.NoError(t, err)

	claims := &middleware.Claims{}
	token, err := jwt.ParseWithClaims(strings.TrimSpace(out), claims, func(*jwt.Token) (interface{}, error) {
		return []byte("s3cret"), nil
	}, jwt.WithIssuer("test-issuer"))
	require.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, "u-nazer", claims.Subject)
	assert.Equal(t, "nazer", claims.Role)
}

func TestTokenRejectsUnknownRole(t *testing.T) {
	_, err := execute(t, "token", "--secret", "s", "--user", "u1", "--role", "janitor")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown role")
}
