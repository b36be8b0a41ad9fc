package dto

import (
	"time"

	"github.com/luminapay/railsync/internal/core/domain"
)

// OrganizationResponse defines the structure for API responses containing an organization.
type OrganizationResponse struct {
	OrganizationID  string    `json:"organizationID"`
	Name            string    `json:"name"`
	DefaultCurrency string    `json:"defaultCurrency"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ToOrganizationResponse converts a domain.Organization to its response DTO.
func ToOrganizationResponse(o *domain.Organization) OrganizationResponse {
	return OrganizationResponse{
		OrganizationID:  o.OrganizationID,
		Name:            o.Name,
		DefaultCurrency: o.DefaultCurrency,
		CreatedAt:       o.CreatedAt,
	}
}

// PutRailMappingRequest defines the structure for configuring a rail's external
// clearing account identifier.
type PutRailMappingRequest struct {
	ExternalAccount string `json:"externalAccount" binding:"required"`
}

// RailMappingResponse defines the structure for API responses containing one
// rail account mapping.
type RailMappingResponse struct {
	OrganizationID  string    `json:"organizationID"`
	Rail            string    `json:"rail"`
	ExternalAccount string    `json:"externalAccount"`
	LastUpdatedAt   time.Time `json:"lastUpdatedAt"`
}

// ToRailMappingResponse converts a domain mapping to its response DTO.
func ToRailMappingResponse(m domain.RailAccountMapping) RailMappingResponse {
	return RailMappingResponse{
		OrganizationID:  m.OrganizationID,
		Rail:            string(m.Rail),
		ExternalAccount: m.ExternalAccount,
		LastUpdatedAt:   m.LastUpdatedAt,
	}
}

// ToListRailMappingResponse converts domain mappings to response DTOs.
func ToListRailMappingResponse(mappings []domain.RailAccountMapping) []RailMappingResponse {
	responses := make([]RailMappingResponse, len(mappings))
	for i, m := range mappings {
		responses[i] = ToRailMappingResponse(m)
	}
	return responses
}
