package mapping

import (
	"github.com/luminapay/railsync/internal/core/domain"
	"github.com/luminapay/railsync/internal/models"
)

// ToModelLedgerEntry converts a domain ledger entry to its persistence shape.
func ToModelLedgerEntry(e domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:      e.EntryID,
		AccountCode:  e.AccountCode,
		EntryType:    string(e.EntryType),
		Amount:       e.Amount,
		CurrencyCode: e.CurrencyCode,
		PaymentID:    e.PaymentID,
		CreatedAt:    e.CreatedAt,
	}
}

// ToDomainLedgerEntry converts a persistence ledger entry row to its domain shape.
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:      m.EntryID,
		AccountCode:  m.AccountCode,
		EntryType:    domain.EntryType(m.EntryType),
		Amount:       m.Amount,
		CurrencyCode: m.CurrencyCode,
		PaymentID:    m.PaymentID,
		CreatedAt:    m.CreatedAt,
	}
}

// ToModelLedgerAccount converts a domain account to its persistence shape.
func ToModelLedgerAccount(a domain.LedgerAccount) models.LedgerAccount {
	return models.LedgerAccount{
		AccountID:      a.AccountID,
		OrganizationID: a.OrganizationID,
		Code:           a.Code,
		Name:           a.Name,
		AccountType:    string(a.AccountType),
		CurrencyCode:   a.CurrencyCode,
		AuditFields:    toModelAudit(a.AuditFields),
	}
}

// ToDomainLedgerAccount converts a persistence account row to its domain shape.
func ToDomainLedgerAccount(m models.LedgerAccount) domain.LedgerAccount {
	return domain.LedgerAccount{
		AccountID:      m.AccountID,
		OrganizationID: m.OrganizationID,
		Code:           m.Code,
		Name:           m.Name,
		AccountType:    domain.AccountType(m.AccountType),
		CurrencyCode:   m.CurrencyCode,
		AuditFields:    toDomainAudit(m.AuditFields),
	}
}
