package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/luminapay/railsync/internal/apperrors"
	"github.com/luminapay/railsync/internal/core/domain"
	portsrepo "github.com/luminapay/railsync/internal/core/ports/repositories"
	"github.com/luminapay/railsync/internal/models"
	"github.com/luminapay/railsync/internal/utils/mapping"
)

type PgxOrganizationRepository struct {
	BaseRepository
}

// newPgxOrganizationRepository creates a new repository for organizations and
// their rail account mappings.
func newPgxOrganizationRepository(pool *pgxpool.Pool) portsrepo.OrganizationRepositoryFacade {
	return &PgxOrganizationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.OrganizationRepositoryFacade = (*PgxOrganizationRepository)(nil)

func (r *PgxOrganizationRepository) FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	query := `
		SELECT organization_id, name, default_currency,
			created_at, created_by, last_updated_at, last_updated_by
		FROM organizations
		WHERE organization_id = $1;
	`
	var m models.Organization
	err := r.Pool.QueryRow(ctx, query, organizationID).Scan(
		&m.OrganizationID,
		&m.Name,
		&m.DefaultCurrency,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find organization "+organizationID, err)
	}

	org := mapping.ToDomainOrganization(m)
	return &org, nil
}

func (r *PgxOrganizationRepository) FindRailMapping(ctx context.Context, organizationID string, rail domain.Rail) (*domain.RailAccountMapping, error) {
	query := `
		SELECT organization_id, rail, external_account,
			created_at, created_by, last_updated_at, last_updated_by
		FROM organization_rail_accounts
		WHERE organization_id = $1 AND rail = $2;
	`
	var m models.RailAccountMapping
	err := r.Pool.QueryRow(ctx, query, organizationID, string(rail)).Scan(
		&m.OrganizationID,
		&m.Rail,
		&m.ExternalAccount,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find rail mapping for "+string(rail), err)
	}

	rm := mapping.ToDomainRailMapping(m)
	return &rm, nil
}

func (r *PgxOrganizationRepository) SaveRailMapping(ctx context.Context, railMapping domain.RailAccountMapping) error {
	m := mapping.ToModelRailMapping(railMapping)
	query := `
		INSERT INTO organization_rail_accounts (organization_id, rail, external_account, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (organization_id, rail) DO UPDATE SET
			external_account = EXCLUDED.external_account,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		m.OrganizationID,
		m.Rail,
		m.ExternalAccount,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save rail mapping for "+m.Rail, err)
	}
	return nil
}

func (r *PgxOrganizationRepository) ListRailMappings(ctx context.Context, organizationID string) ([]domain.RailAccountMapping, error) {
	query := `
		SELECT organization_id, rail, external_account,
			created_at, created_by, last_updated_at, last_updated_by
		FROM organization_rail_accounts
		WHERE organization_id = $1
		ORDER BY rail ASC;
	`
	rows, err := r.Pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list rail mappings", err)
	}
	defer rows.Close()

	var mappings []domain.RailAccountMapping
	for rows.Next() {
		var m models.RailAccountMapping
		if err := rows.Scan(
			&m.OrganizationID,
			&m.Rail,
			&m.ExternalAccount,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan rail mapping", err)
		}
		mappings = append(mappings, mapping.ToDomainRailMapping(m))
	}
	return mappings, rows.Err()
}
