package domain

// Rail identifies a settlement channel. Each rail clears through its own
// clearing account so funds-in-transit can be reconciled per channel.
type Rail string

const (
	RailCard Rail = "CARD"
	RailSOL  Rail = "SOL"
	RailUSDC Rail = "USDC"
	RailUSDT Rail = "USDT"
	RailAUDD Rail = "AUDD"
)

// VolatilityClass partitions assets by how quickly their price is expected to move.
// It drives the rate-cache TTL per pair.
type VolatilityClass string

const (
	Volatile VolatilityClass = "VOLATILE"
	Pegged   VolatilityClass = "PEGGED"
)

// railInfo is the static registry of supported rails.
type railInfo struct {
	clearingCode string
	crypto       bool
	volatility   VolatilityClass
	peggedFiat   string // fiat currency a pegged asset tracks 1:1, empty otherwise
}

var rails = map[Rail]railInfo{
	RailCard: {clearingCode: "CLR-CARD", crypto: false},
	RailSOL:  {clearingCode: "CLR-SOL", crypto: true, volatility: Volatile},
	RailUSDC: {clearingCode: "CLR-USDC", crypto: true, volatility: Pegged, peggedFiat: "USD"},
	RailUSDT: {clearingCode: "CLR-USDT", crypto: true, volatility: Pegged, peggedFiat: "USD"},
	RailAUDD: {clearingCode: "CLR-AUDD", crypto: true, volatility: Pegged, peggedFiat: "AUD"},
}

// AllRails returns the fixed set of settlement rails in stable order.
func AllRails() []Rail {
	return []Rail{RailCard, RailSOL, RailUSDC, RailUSDT, RailAUDD}
}

// CryptoRails returns the crypto subset of AllRails in stable order.
func CryptoRails() []Rail {
	return []Rail{RailSOL, RailUSDC, RailUSDT, RailAUDD}
}

// IsValid reports whether r names a supported rail.
func (r Rail) IsValid() bool {
	_, ok := rails[r]
	return ok
}

// IsCrypto reports whether the rail settles in a crypto asset.
func (r Rail) IsCrypto() bool {
	return rails[r].crypto
}

// ClearingAccountCode returns the fixed ledger code of the rail's clearing account.
func (r Rail) ClearingAccountCode() string {
	return rails[r].clearingCode
}

// Volatility returns the rail asset's volatility class. Meaningless for CARD.
func (r Rail) Volatility() VolatilityClass {
	return rails[r].volatility
}

// PeggedFiat returns the fiat currency a pegged asset tracks, or "" when the
// asset is not pegged (or the rail is fiat).
func (r Rail) PeggedFiat() string {
	return rails[r].peggedFiat
}

// RailForClearingCode resolves a clearing-account code back to its rail.
func RailForClearingCode(code string) (Rail, bool) {
	for r, info := range rails {
		if info.clearingCode == code {
			return r, true
		}
	}
	return "", false
}
