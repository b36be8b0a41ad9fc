package accounting

import (
	"fmt"

	"github.com/luminapay/railsync/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedAmount applies the double-entry sign convention to a ledger entry.
// DEBIT to ASSET/EXPENSE -> Positive (+)
// CREDIT to ASSET/EXPENSE -> Negative (-)
// DEBIT to LIABILITY/EQUITY/REVENUE -> Negative (-)
// CREDIT to LIABILITY/EQUITY/REVENUE -> Positive (+)
func SignedAmount(entry domain.LedgerEntry, accountType domain.AccountType) (decimal.Decimal, error) {
	signed := entry.Amount
	isDebit := entry.EntryType == domain.Debit

	switch accountType {
	case domain.Asset, domain.Expense:
		if !isDebit {
			signed = signed.Neg()
		}
	case domain.Liability, domain.Equity, domain.Revenue:
		if isDebit {
			signed = signed.Neg()
		}
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s' encountered for account code %s", accountType, entry.AccountCode)
	}
	return signed, nil
}

// Balance folds entries for a single account under the sign convention. It is
// a pure function of its inputs so reporting can recompute it freely.
func Balance(entries []domain.LedgerEntry, accountType domain.AccountType) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, entry := range entries {
		signed, err := SignedAmount(entry, accountType)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(signed)
	}
	return total, nil
}

// ValidateBalancedPair checks that a payment's entries balance: equal debit and
// credit sums within tolerance, with every amount non-negative. Used both when
// writing a pair and when auditing stored entries.
func ValidateBalancedPair(entries []domain.LedgerEntry, tolerance decimal.Decimal) error {
	if len(entries) < 2 {
		return fmt.Errorf("payment ledger entries must come in balanced pairs, got %d entries", len(entries))
	}

	debits := decimal.Zero
	credits := decimal.Zero
	for _, entry := range entries {
		if entry.Amount.IsNegative() {
			return fmt.Errorf("ledger entry %s has negative amount %s", entry.EntryID, entry.Amount.String())
		}
		if entry.EntryType == domain.Debit {
			debits = debits.Add(entry.Amount)
		} else {
			credits = credits.Add(entry.Amount)
		}
	}

	if debits.Sub(credits).Abs().GreaterThan(tolerance) {
		return fmt.Errorf("debits %s and credits %s differ beyond tolerance %s", debits.String(), credits.String(), tolerance.String())
	}
	return nil
}
