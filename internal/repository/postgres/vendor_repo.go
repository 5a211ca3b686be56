package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"autostock/internal/domain"
	"autostock/internal/port"
)

type vendorRepo struct {
	db *sqlx.DB
}

// NewVendorRepo creates a new PostgreSQL-backed VendorRepository.
func NewVendorRepo(db *sqlx.DB) port.VendorRepository {
	return &vendorRepo{db: db}
}

func (r *vendorRepo) Create(ctx context.Context, vendor *domain.Vendor) error {
	now := time.Now().UTC()
	vendor.CreatedAt = now
	vendor.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO vendors (id, name, gstin, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		vendor.ID, vendor.Name, vendor.GSTIN, vendor.CreatedAt, vendor.UpdatedAt)
	if err != nil {
		return fmt.Errorf("vendorRepo.Create: %w", err)
	}
	return nil
}

func (r *vendorRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vendor, error) {
	var v domain.Vendor
	err := r.db.GetContext(ctx, &v, "SELECT * FROM vendors WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrVendorNotFound
		}
		return nil, fmt.Errorf("vendorRepo.GetByID: %w", err)
	}
	return &v, nil
}

func (r *vendorRepo) GetByGSTIN(ctx context.Context, gstin string) (*domain.Vendor, error) {
	var v domain.Vendor
	err := r.db.GetContext(ctx, &v, "SELECT * FROM vendors WHERE gstin = $1", gstin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrVendorNotFound
		}
		return nil, fmt.Errorf("vendorRepo.GetByGSTIN: %w", err)
	}
	return &v, nil
}

func (r *vendorRepo) GetByName(ctx context.Context, name string) (*domain.Vendor, error) {
	var v domain.Vendor
	err := r.db.GetContext(ctx, &v,
		"SELECT * FROM vendors WHERE lower(name) = lower($1) LIMIT 1", name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrVendorNotFound
		}
		return nil, fmt.Errorf("vendorRepo.GetByName: %w", err)
	}
	return &v, nil
}

func (r *vendorRepo) List(ctx context.Context, offset, limit int) ([]domain.Vendor, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM vendors"); err != nil {
		return nil, 0, fmt.Errorf("vendorRepo.List count: %w", err)
	}

	var vendors []domain.Vendor
	err := r.db.SelectContext(ctx, &vendors,
		"SELECT * FROM vendors ORDER BY name LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("vendorRepo.List: %w", err)
	}
	return vendors, total, nil
}
