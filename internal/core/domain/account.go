package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// accountTypeByRoot maps the first segment of an account code to its type.
var accountTypeByRoot = map[string]AccountType{
	"1": Asset,
	"2": Liability,
	"3": Equity,
	"4": Revenue,
	"5": Expense,
}

// Account is a chart-of-accounts node. Balance is maintained by the ledger only.
type Account struct {
	AccountID      string          `json:"accountID"`
	Code           string          `json:"code"` // hierarchical, e.g. "1.1.1"
	Name           string          `json:"name"`
	AccountType    AccountType     `json:"accountType"`
	ParentCode     string          `json:"parentCode"` // empty for roots
	IsActive       bool            `json:"isActive"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	AuditFields
}

// IsDebitNormal reports whether debits increase the account's balance.
func (t AccountType) IsDebitNormal() bool {
	return t == Asset || t == Expense
}

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// ParseAccountCode validates a hierarchical code and returns the account type implied
// by its root segment together with the parent code.
func ParseAccountCode(code string) (AccountType, string, error) {
	if code == "" {
		return "", "", fmt.Errorf("account code is empty")
	}
	segments := strings.Split(code, ".")
	for _, seg := range segments {
		if seg == "" {
			return "", "", fmt.Errorf("account code %q has an empty segment", code)
		}
		if _, err := strconv.ParseUint(seg, 10, 32); err != nil {
			return "", "", fmt.Errorf("account code %q segment %q is not numeric", code, seg)
		}
	}
	accountType, ok := accountTypeByRoot[segments[0]]
	if !ok {
		return "", "", fmt.Errorf("account code %q has unknown root %q", code, segments[0])
	}
	parent := ""
	if len(segments) > 1 {
		parent = strings.Join(segments[:len(segments)-1], ".")
	}
	return accountType, parent, nil
}
