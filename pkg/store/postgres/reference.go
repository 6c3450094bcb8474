package postgres

import (
	"context"

	"github.com/affreight/shipengine/internal/apperrors"
	"github.com/affreight/shipengine/pkg/domain"
)

// ListPorts returns the full ports catalog; backs the C5
// port-matching loader and the PortsCache (spec §9, "Ports / companies
// thin read endpoints").
func (s *Store) ListPorts(ctx context.Context) ([]domain.Port, error) {
	var ports []domain.Port
	if err := s.db.SelectContext(ctx, &ports, `SELECT un_code, name, country FROM ports ORDER BY un_code`); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to list ports")
	}
	return ports, nil
}

// ListCompanies returns non-trashed companies, for C5 fuzzy matching.
func (s *Store) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	var companies []domain.Company
	if err := s.db.SelectContext(ctx, &companies, `SELECT id, name, trash, created_at, updated_at FROM companies WHERE trash = false ORDER BY name`); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to list companies")
	}
	return companies, nil
}

// CompanyNames returns the id -> name map for non-trashed companies,
// backing the CompanyNamesCache loader (spec §9).
func (s *Store) CompanyNames(ctx context.Context) (map[string]string, error) {
	companies, err := s.ListCompanies(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(companies))
	for _, c := range companies {
		out[c.ID] = c.Name
	}
	return out, nil
}

// GetCompany loads one company by id, used by handler-side existence
// checks (e.g. company reassignment).
func (s *Store) GetCompany(ctx context.Context, id string) (domain.Company, error) {
	var c domain.Company
	err := s.db.GetContext(ctx, &c, `SELECT id, name, trash, created_at, updated_at FROM companies WHERE id = $1 AND trash = false`, id)
	if err != nil {
		return domain.Company{}, mapNoRows(err, "company")
	}
	return c, nil
}

// ListFileTags returns the file tag catalog (spec §9 "File tag catalog
// CRUD").
func (s *Store) ListFileTags(ctx context.Context) ([]domain.FileTag, error) {
	var tags []domain.FileTag
	if err := s.db.SelectContext(ctx, &tags, `SELECT tag FROM file_tags ORDER BY tag`); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to list file tags")
	}
	return tags, nil
}

// CreateFileTag adds a new tag to the catalog; idempotent on conflict.
func (s *Store) CreateFileTag(ctx context.Context, tag string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO file_tags (tag) VALUES ($1) ON CONFLICT (tag) DO NOTHING`, tag)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to create file tag")
	}
	return nil
}
