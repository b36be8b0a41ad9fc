package repositories

import (
	"context"

	"github.com/luminapay/railsync/internal/core/domain"
)

// OrganizationRepositoryFacade provides merchant configuration reads and the
// rail-to-clearing-account mapping writes.
type OrganizationRepositoryFacade interface {
	FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error)
	FindRailMapping(ctx context.Context, organizationID string, rail domain.Rail) (*domain.RailAccountMapping, error)
	SaveRailMapping(ctx context.Context, mapping domain.RailAccountMapping) error
	ListRailMappings(ctx context.Context, organizationID string) ([]domain.RailAccountMapping, error)
}
