package models

// Organization is the persistence shape of a merchant tenant row.
type Organization struct {
	OrganizationID  string `db:"organization_id"`
	Name            string `db:"name"`
	DefaultCurrency string `db:"default_currency"`
	AuditFields
}

// RailAccountMapping is the persistence shape of a rail-to-external-account row.
type RailAccountMapping struct {
	OrganizationID  string `db:"organization_id"`
	Rail            string `db:"rail"`
	ExternalAccount string `db:"external_account"`
	AuditFields
}
