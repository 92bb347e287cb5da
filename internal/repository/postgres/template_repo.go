package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"sleekinvoices/internal/domain"
	"sleekinvoices/internal/port"
)

type templateRepo struct {
	db *sqlx.DB
}

// NewTemplateRepo creates a new PostgreSQL-backed TemplateRepository.
func NewTemplateRepo(db *sqlx.DB) port.TemplateRepository {
	return &templateRepo{db: db}
}

func (r *templateRepo) Create(ctx context.Context, tpl *domain.Template) error {
	tpl.ID = uuid.New()
	now := time.Now().UTC()
	tpl.CreatedAt = now
	tpl.UpdatedAt = now

	query := `INSERT INTO templates (
			id, tenant_id, name, accent_color, logo_bucket, logo_key,
			footer_note, is_default, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		tpl.ID, tpl.TenantID, tpl.Name, tpl.AccentColor, tpl.LogoBucket,
		tpl.LogoKey, tpl.FooterNote, tpl.IsDefault, tpl.CreatedAt, tpl.UpdatedAt)
	if err != nil {
		return fmt.Errorf("templateRepo.Create: %w", err)
	}
	return nil
}

func (r *templateRepo) GetByID(ctx context.Context, tenantID, templateID uuid.UUID) (*domain.Template, error) {
	var tpl domain.Template
	err := r.db.GetContext(ctx, &tpl,
		"SELECT * FROM templates WHERE tenant_id = $1 AND id = $2", tenantID, templateID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("templateRepo.GetByID: %w", err)
	}
	return &tpl, nil
}

func (r *templateRepo) GetDefault(ctx context.Context, tenantID uuid.UUID) (*domain.Template, error) {
	var tpl domain.Template
	err := r.db.GetContext(ctx, &tpl,
		"SELECT * FROM templates WHERE tenant_id = $1 AND is_default = true", tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("templateRepo.GetDefault: %w", err)
	}
	return &tpl, nil
}

func (r *templateRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.Template, error) {
	var templates []domain.Template
	err := r.db.SelectContext(ctx, &templates,
		"SELECT * FROM templates WHERE tenant_id = $1 ORDER BY is_default DESC, name ASC", tenantID)
	if err != nil {
		return nil, fmt.Errorf("templateRepo.ListByTenant: %w", err)
	}
	return templates, nil
}

func (r *templateRepo) Update(ctx context.Context, tpl *domain.Template) error {
	tpl.UpdatedAt = time.Now().UTC()
	query := `UPDATE templates SET
			name = $1, accent_color = $2, logo_bucket = $3, logo_key = $4,
			footer_note = $5, updated_at = $6
		WHERE tenant_id = $7 AND id = $8`
	result, err := r.db.ExecContext(ctx, query,
		tpl.Name, tpl.AccentColor, tpl.LogoBucket, tpl.LogoKey,
		tpl.FooterNote, tpl.UpdatedAt, tpl.TenantID, tpl.ID)
	if err != nil {
		return fmt.Errorf("templateRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrTemplateNotFound
	}
	return nil
}

// SetDefault clears the previous default and promotes the given template in
// one transaction so there is never more than one default per tenant.
func (r *templateRepo) SetDefault(ctx context.Context, tenantID, templateID uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("templateRepo.SetDefault begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		"UPDATE templates SET is_default = false, updated_at = $1 WHERE tenant_id = $2 AND is_default = true",
		time.Now().UTC(), tenantID)
	if err != nil {
		return fmt.Errorf("templateRepo.SetDefault clear: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		"UPDATE templates SET is_default = true, updated_at = $1 WHERE tenant_id = $2 AND id = $3",
		time.Now().UTC(), tenantID, templateID)
	if err != nil {
		return fmt.Errorf("templateRepo.SetDefault promote: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrTemplateNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("templateRepo.SetDefault commit: %w", err)
	}
	return nil
}

func (r *templateRepo) Delete(ctx context.Context, tenantID, templateID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM templates WHERE tenant_id = $1 AND id = $2", tenantID, templateID)
	if err != nil {
		return fmt.Errorf("templateRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrTemplateNotFound
	}
	return nil
}

func (r *templateRepo) CountInvoicesUsing(ctx context.Context, tenantID, templateID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM invoices WHERE tenant_id = $1 AND template_id = $2", tenantID, templateID)
	if err != nil {
		return 0, fmt.Errorf("templateRepo.CountInvoicesUsing: %w", err)
	}
	return count, nil
}
