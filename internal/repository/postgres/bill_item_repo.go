package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"autostock/internal/domain"
	"autostock/internal/port"
)

type billItemRepo struct {
	db *sqlx.DB
}

// NewBillItemRepo creates a new PostgreSQL-backed BillItemRepository.
func NewBillItemRepo(db *sqlx.DB) port.BillItemRepository {
	return &billItemRepo{db: db}
}

func (r *billItemRepo) CreateBatch(ctx context.Context, items []*domain.BillItem) error {
	if len(items) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for _, item := range items {
		item.CreatedAt = now
	}

	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO bill_items (
			id, vendor_bill_id, product_id, quantity,
			purchase_rate, gst_percentage, total_amount, created_at
		) VALUES (
			:id, :vendor_bill_id, :product_id, :quantity,
			:purchase_rate, :gst_percentage, :total_amount, :created_at
		)`, items)
	if err != nil {
		return fmt.Errorf("billItemRepo.CreateBatch: %w", err)
	}
	return nil
}

func (r *billItemRepo) ListByBill(ctx context.Context, billID uuid.UUID) ([]domain.BillItem, error) {
	var items []domain.BillItem
	err := r.db.SelectContext(ctx, &items,
		"SELECT * FROM bill_items WHERE vendor_bill_id = $1 ORDER BY created_at",
		billID)
	if err != nil {
		return nil, fmt.Errorf("billItemRepo.ListByBill: %w", err)
	}
	return items, nil
}
