package accounting

import (
	"testing"

	"github.com/luminapay/railsync/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(entryType domain.EntryType, amount string) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:     "entry-" + amount + "-" + string(entryType),
		AccountCode: "CLR-CARD",
		EntryType:   entryType,
		Amount:      decimal.RequireFromString(amount),
	}
}

func TestSignedAmount(t *testing.T) {
	tests := []struct {
		name        string
		entryType   domain.EntryType
		accountType domain.AccountType
		amount      string
		want        string
	}{
		{"debit to asset is positive", domain.Debit, domain.Asset, "100", "100"},
		{"credit to asset is negative", domain.Credit, domain.Asset, "100", "-100"},
		{"debit to expense is positive", domain.Debit, domain.Expense, "42.50", "42.50"},
		{"credit to expense is negative", domain.Credit, domain.Expense, "42.50", "-42.50"},
		{"debit to revenue is negative", domain.Debit, domain.Revenue, "100", "-100"},
		{"credit to revenue is positive", domain.Credit, domain.Revenue, "100", "100"},
		{"debit to liability is negative", domain.Debit, domain.Liability, "7", "-7"},
		{"credit to equity is positive", domain.Credit, domain.Equity, "7", "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SignedAmount(entry(tt.entryType, tt.amount), tt.accountType)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestSignedAmount_UnknownAccountType(t *testing.T) {
	_, err := SignedAmount(entry(domain.Debit, "100"), domain.AccountType("MYSTERY"))
	assert.Error(t, err)
}

func TestBalance(t *testing.T) {
	entries := []domain.LedgerEntry{
		entry(domain.Debit, "150.00"),
		entry(domain.Debit, "25.50"),
		entry(domain.Credit, "100.00"),
	}

	// Asset account: debits add, credits subtract.
	got, err := Balance(entries, domain.Asset)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("75.50")), "got %s", got)

	// Revenue account: same entries fold with opposite signs.
	got, err = Balance(entries, domain.Revenue)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("-75.50")), "got %s", got)
}

func TestBalance_EmptyEntriesIsZero(t *testing.T) {
	got, err := Balance(nil, domain.Asset)
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestValidateBalancedPair(t *testing.T) {
	tolerance := decimal.RequireFromString("0.01")

	tests := []struct {
		name    string
		entries []domain.LedgerEntry
		wantErr bool
	}{
		{
			name: "exactly balanced pair",
			entries: []domain.LedgerEntry{
				entry(domain.Debit, "150.00"),
				entry(domain.Credit, "150.00"),
			},
		},
		{
			name: "difference within tolerance",
			entries: []domain.LedgerEntry{
				entry(domain.Debit, "150.00"),
				entry(domain.Credit, "149.99"),
			},
		},
		{
			name: "difference beyond tolerance",
			entries: []domain.LedgerEntry{
				entry(domain.Debit, "150.00"),
				entry(domain.Credit, "149.98"),
			},
			wantErr: true,
		},
		{
			name: "single entry is never balanced",
			entries: []domain.LedgerEntry{
				entry(domain.Debit, "150.00"),
			},
			wantErr: true,
		},
		{
			name: "negative amount rejected",
			entries: []domain.LedgerEntry{
				entry(domain.Debit, "-150.00"),
				entry(domain.Credit, "-150.00"),
			},
			wantErr: true,
		},
		{
			name: "multiple entries summed per side",
			entries: []domain.LedgerEntry{
				entry(domain.Debit, "100.00"),
				entry(domain.Debit, "50.00"),
				entry(domain.Credit, "150.00"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBalancedPair(tt.entries, tolerance)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
