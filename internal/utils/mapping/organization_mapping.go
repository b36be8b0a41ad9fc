package mapping

import (
	"github.com/luminapay/railsync/internal/core/domain"
	"github.com/luminapay/railsync/internal/models"
)

// ToDomainOrganization converts a persistence organization row to its domain shape.
func ToDomainOrganization(m models.Organization) domain.Organization {
	return domain.Organization{
		OrganizationID:  m.OrganizationID,
		Name:            m.Name,
		DefaultCurrency: m.DefaultCurrency,
		AuditFields:     toDomainAudit(m.AuditFields),
	}
}

// ToModelRailMapping converts a domain rail mapping to its persistence shape.
func ToModelRailMapping(d domain.RailAccountMapping) models.RailAccountMapping {
	return models.RailAccountMapping{
		OrganizationID:  d.OrganizationID,
		Rail:            string(d.Rail),
		ExternalAccount: d.ExternalAccount,
		AuditFields:     toModelAudit(d.AuditFields),
	}
}

// ToDomainRailMapping converts a persistence rail mapping row to its domain shape.
func ToDomainRailMapping(m models.RailAccountMapping) domain.RailAccountMapping {
	return domain.RailAccountMapping{
		OrganizationID:  m.OrganizationID,
		Rail:            domain.Rail(m.Rail),
		ExternalAccount: m.ExternalAccount,
		AuditFields:     toDomainAudit(m.AuditFields),
	}
}
