package domain

// Organization is a merchant tenant. Only the configuration this engine needs
// is modelled: everything else about merchants lives outside the core.
type Organization struct {
	OrganizationID  string `json:"organizationID"`
	Name            string `json:"name"`
	DefaultCurrency string `json:"defaultCurrency"`
	AuditFields
}

// RailAccountMapping links one settlement rail to the identifier of the
// clearing account inside the external accounting system. Sync for a rail is a
// hard configuration failure until its mapping exists.
type RailAccountMapping struct {
	OrganizationID  string `json:"organizationID"`
	Rail            Rail   `json:"rail"`
	ExternalAccount string `json:"externalAccount"`
	AuditFields
}
