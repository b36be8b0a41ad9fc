package dto

import (
	"github.com/luminapay/railsync/internal/core/domain"
	portssvc "github.com/luminapay/railsync/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// AccountBalanceResponse pairs a ledger account with its current balance.
type AccountBalanceResponse struct {
	AccountID    string          `json:"accountID"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	AccountType  string          `json:"accountType"`
	CurrencyCode string          `json:"currencyCode"`
	Rail         string          `json:"rail,omitempty"` // set for clearing accounts
	Balance      decimal.Decimal `json:"balance"`
}

// ToAccountBalanceResponse converts a service balance row to its response DTO.
func ToAccountBalanceResponse(b portssvc.AccountBalance) AccountBalanceResponse {
	out := AccountBalanceResponse{
		AccountID:    b.Account.AccountID,
		Code:         b.Account.Code,
		Name:         b.Account.Name,
		AccountType:  string(b.Account.AccountType),
		CurrencyCode: b.Account.CurrencyCode,
		Balance:      b.Balance,
	}
	if rail, ok := domain.RailForClearingCode(b.Account.Code); ok {
		out.Rail = string(rail)
	}
	return out
}

// ToListAccountBalanceResponse converts service balance rows to response DTOs.
func ToListAccountBalanceResponse(balances []portssvc.AccountBalance) []AccountBalanceResponse {
	responses := make([]AccountBalanceResponse, len(balances))
	for i, b := range balances {
		responses[i] = ToAccountBalanceResponse(b)
	}
	return responses
}
