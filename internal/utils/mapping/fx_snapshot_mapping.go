package mapping

import (
	"github.com/luminapay/railsync/internal/core/domain"
	"github.com/luminapay/railsync/internal/models"
)

// ToDomainSnapshot converts a persistence FX snapshot row to its domain shape.
func ToDomainSnapshot(m models.FxSnapshot) domain.FxSnapshot {
	return domain.FxSnapshot{
		SnapshotID:    m.SnapshotID,
		PaymentID:     m.PaymentID,
		Kind:          domain.SnapshotKind(m.Kind),
		Asset:         m.Asset,
		BaseCurrency:  m.BaseCurrency,
		QuoteCurrency: m.QuoteCurrency,
		Rate:          m.Rate,
		Source:        m.Source,
		CapturedAt:    m.CapturedAt,
	}
}
