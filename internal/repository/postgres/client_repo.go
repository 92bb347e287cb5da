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

type clientRepo struct {
	db *sqlx.DB
}

// NewClientRepo creates a new PostgreSQL-backed ClientRepository.
func NewClientRepo(db *sqlx.DB) port.ClientRepository {
	return &clientRepo{db: db}
}

func (r *clientRepo) Create(ctx context.Context, client *domain.Client) error {
	client.ID = uuid.New()
	now := time.Now().UTC()
	client.CreatedAt = now
	client.UpdatedAt = now

	query := `INSERT INTO clients (id, tenant_id, name, email, company, phone, address, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		client.ID, client.TenantID, client.Name, client.Email, client.Company,
		client.Phone, client.Address, client.Notes, client.CreatedAt, client.UpdatedAt)
	if err != nil {
		return fmt.Errorf("clientRepo.Create: %w", err)
	}
	return nil
}

func (r *clientRepo) GetByID(ctx context.Context, tenantID, clientID uuid.UUID) (*domain.Client, error) {
	var client domain.Client
	err := r.db.GetContext(ctx, &client,
		"SELECT * FROM clients WHERE tenant_id = $1 AND id = $2", tenantID, clientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrClientNotFound
		}
		return nil, fmt.Errorf("clientRepo.GetByID: %w", err)
	}
	return &client, nil
}

func (r *clientRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID, search string, offset, limit int) ([]domain.Client, int, error) {
	where := "tenant_id = $1"
	args := []interface{}{tenantID}
	if search != "" {
		where += " AND (name ILIKE $2 OR email ILIKE $2 OR company ILIKE $2)"
		args = append(args, "%"+search+"%")
	}

	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM clients WHERE "+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("clientRepo.ListByTenant count: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT * FROM clients WHERE %s ORDER BY name ASC LIMIT $%d OFFSET $%d",
		where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	var clients []domain.Client
	err = r.db.SelectContext(ctx, &clients, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("clientRepo.ListByTenant: %w", err)
	}
	return clients, total, nil
}

func (r *clientRepo) Update(ctx context.Context, client *domain.Client) error {
	client.UpdatedAt = time.Now().UTC()
	query := `UPDATE clients SET name = $1, email = $2, company = $3, phone = $4, address = $5, notes = $6, updated_at = $7
		WHERE tenant_id = $8 AND id = $9`
	result, err := r.db.ExecContext(ctx, query,
		client.Name, client.Email, client.Company, client.Phone, client.Address,
		client.Notes, client.UpdatedAt, client.TenantID, client.ID)
	if err != nil {
		return fmt.Errorf("clientRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}

func (r *clientRepo) Delete(ctx context.Context, tenantID, clientID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM clients WHERE tenant_id = $1 AND id = $2", tenantID, clientID)
	if err != nil {
		return fmt.Errorf("clientRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}

func (r *clientRepo) CountInvoices(ctx context.Context, tenantID, clientID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM invoices WHERE tenant_id = $1 AND client_id = $2", tenantID, clientID)
	if err != nil {
		return 0, fmt.Errorf("clientRepo.CountInvoices: %w", err)
	}
	return count, nil
}
