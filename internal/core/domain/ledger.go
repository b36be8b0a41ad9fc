package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of a ledger account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// LedgerAccount is one account in an organization's fixed chart of accounts.
// The five clearing accounts (one per rail) are a distinguished subset.
type LedgerAccount struct {
	AccountID      string      `json:"accountID"`
	OrganizationID string      `json:"organizationID"`
	Code           string      `json:"code"` // stable short identifier, e.g. CLR-USDC
	Name           string      `json:"name"`
	AccountType    AccountType `json:"accountType"`
	CurrencyCode   string      `json:"currencyCode"`
	AuditFields
}

// IsClearing reports whether the account is one of the per-rail clearing accounts.
func (a LedgerAccount) IsClearing() bool {
	_, ok := RailForClearingCode(a.Code)
	return ok
}

// RevenueAccountCode is the fixed chart code settlement credits post against.
const RevenueAccountCode = "REV-SALES"

// EntryType indicates whether a ledger entry is a debit or a credit.
type EntryType string

const (
	Debit  EntryType = "DEBIT"
	Credit EntryType = "CREDIT"
)

// LedgerEntry is one append-only double-entry line. Entries are always written
// in balanced debit/credit pairs within a single storage transaction; a payment
// with entries on only one side is an integrity violation.
type LedgerEntry struct {
	EntryID      string          `json:"entryID"`
	AccountCode  string          `json:"accountCode"`
	EntryType    EntryType       `json:"entryType"`
	Amount       decimal.Decimal `json:"amount"` // always non-negative
	CurrencyCode string          `json:"currencyCode"`
	PaymentID    string          `json:"paymentID"`
	CreatedAt    time.Time       `json:"createdAt"`
}
