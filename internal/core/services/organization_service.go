package services

import (
	"context"
	"fmt"
	"time"

	"github.com/luminapay/railsync/internal/apperrors"
	"github.com/luminapay/railsync/internal/core/domain"
	portsrepo "github.com/luminapay/railsync/internal/core/ports/repositories"
	portssvc "github.com/luminapay/railsync/internal/core/ports/services"
)

// organizationService exposes merchant configuration: the per-rail mapping to
// external clearing accounts that sync depends on.
type organizationService struct {
	orgRepo   portsrepo.OrganizationRepositoryFacade
	ledgerSvc portssvc.LedgerSvcFacade
}

// NewOrganizationService creates a new OrganizationService.
func NewOrganizationService(orgRepo portsrepo.OrganizationRepositoryFacade, ledgerSvc portssvc.LedgerSvcFacade) portssvc.OrganizationSvcFacade {
	return &organizationService{orgRepo: orgRepo, ledgerSvc: ledgerSvc}
}

var _ portssvc.OrganizationSvcFacade = (*organizationService)(nil)

func (s *organizationService) GetOrganization(ctx context.Context, organizationID string) (*domain.Organization, error) {
	return s.orgRepo.FindOrganizationByID(ctx, organizationID)
}

func (s *organizationService) ListRailMappings(ctx context.Context, organizationID string) ([]domain.RailAccountMapping, error) {
	return s.orgRepo.ListRailMappings(ctx, organizationID)
}

// PutRailMapping creates or replaces the mapping for one rail.
func (s *organizationService) PutRailMapping(ctx context.Context, mapping domain.RailAccountMapping) error {
	if !mapping.Rail.IsValid() {
		return fmt.Errorf("%w: unknown rail '%s'", apperrors.ErrValidation, mapping.Rail)
	}
	if mapping.ExternalAccount == "" {
		return fmt.Errorf("%w: external account identifier is required", apperrors.ErrValidation)
	}
	org, err := s.orgRepo.FindOrganizationByID(ctx, mapping.OrganizationID)
	if err != nil {
		return err
	}

	// Chart provisioning precedes the mapping save: a rail mapping must never
	// become visible before its ledger posting targets exist.
	if err := s.ledgerSvc.ProvisionChart(ctx, org.OrganizationID, org.DefaultCurrency); err != nil {
		return err
	}

	now := time.Now()
	mapping.CreatedAt = now
	mapping.LastUpdatedAt = now
	return s.orgRepo.SaveRailMapping(ctx, mapping)
}
