package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"autostock/internal/domain"
	"autostock/internal/port"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint hit.
const uniqueViolation = "23505"

type vendorBillRepo struct {
	db *sqlx.DB
}

// NewVendorBillRepo creates a new PostgreSQL-backed VendorBillRepository.
func NewVendorBillRepo(db *sqlx.DB) port.VendorBillRepository {
	return &vendorBillRepo{db: db}
}

func (r *vendorBillRepo) Create(ctx context.Context, bill *domain.VendorBill) error {
	now := time.Now().UTC()
	bill.CreatedAt = now
	bill.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO vendor_bills (
			id, vendor_id, bill_number, bill_date, total_amount,
			payment_status, photo_key, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		bill.ID, bill.VendorID, bill.BillNumber, bill.BillDate, bill.TotalAmount,
		bill.PaymentStatus, bill.PhotoKey, bill.Notes, bill.CreatedAt, bill.UpdatedAt)
	if err != nil {
		// The (vendor_id, bill_number) unique constraint is the only guard
		// against double-ingesting the same paper invoice.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrDuplicateBill
		}
		return fmt.Errorf("vendorBillRepo.Create: %w", err)
	}
	return nil
}

func (r *vendorBillRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.VendorBill, error) {
	var bill domain.VendorBill
	err := r.db.GetContext(ctx, &bill, "SELECT * FROM vendor_bills WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBillNotFound
		}
		return nil, fmt.Errorf("vendorBillRepo.GetByID: %w", err)
	}
	return &bill, nil
}

func (r *vendorBillRepo) ListByVendor(ctx context.Context, vendorID uuid.UUID, offset, limit int) ([]domain.VendorBill, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM vendor_bills WHERE vendor_id = $1", vendorID)
	if err != nil {
		return nil, 0, fmt.Errorf("vendorBillRepo.ListByVendor count: %w", err)
	}

	var bills []domain.VendorBill
	err = r.db.SelectContext(ctx, &bills,
		`SELECT * FROM vendor_bills WHERE vendor_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		vendorID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("vendorBillRepo.ListByVendor: %w", err)
	}
	return bills, total, nil
}

func (r *vendorBillRepo) List(ctx context.Context, offset, limit int) ([]domain.VendorBill, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM vendor_bills"); err != nil {
		return nil, 0, fmt.Errorf("vendorBillRepo.List count: %w", err)
	}

	var bills []domain.VendorBill
	err := r.db.SelectContext(ctx, &bills,
		"SELECT * FROM vendor_bills ORDER BY created_at DESC LIMIT $1 OFFSET $2",
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("vendorBillRepo.List: %w", err)
	}
	return bills, total, nil
}

func (r *vendorBillRepo) SetPhotoKey(ctx context.Context, id uuid.UUID, photoKey string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE vendor_bills SET photo_key = $1, updated_at = $2 WHERE id = $3",
		photoKey, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("vendorBillRepo.SetPhotoKey: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrBillNotFound
	}
	return nil
}
