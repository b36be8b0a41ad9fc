package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerAccount is the persistence shape of a chart-of-accounts row.
type LedgerAccount struct {
	AccountID      string `db:"account_id"`
	OrganizationID string `db:"organization_id"`
	Code           string `db:"code"`
	Name           string `db:"name"`
	AccountType    string `db:"account_type"`
	CurrencyCode   string `db:"currency_code"`
	AuditFields
}

// LedgerEntry is the persistence shape of one append-only double-entry line.
type LedgerEntry struct {
	EntryID      string          `db:"entry_id"`
	AccountCode  string          `db:"account_code"`
	EntryType    string          `db:"entry_type"`
	Amount       decimal.Decimal `db:"amount"`
	CurrencyCode string          `db:"currency_code"`
	PaymentID    string          `db:"payment_id"`
	CreatedAt    time.Time       `db:"created_at"`
}
