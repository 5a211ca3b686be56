package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"autostock/internal/domain"
	"autostock/internal/port"
)

type productRepo struct {
	db *sqlx.DB
}

// NewProductRepo creates a new PostgreSQL-backed ProductRepository.
func NewProductRepo(db *sqlx.DB) port.ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) CreateBatch(ctx context.Context, products []*domain.Product) error {
	if len(products) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for _, p := range products {
		p.CreatedAt = now
		p.UpdatedAt = now
	}

	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO products (
			id, name, part_number, purchase_rate, selling_rate,
			gst_percentage, discount_percentage, current_stock, minimum_stock,
			unit, hsn_code, created_at, updated_at
		) VALUES (
			:id, :name, :part_number, :purchase_rate, :selling_rate,
			:gst_percentage, :discount_percentage, :current_stock, :minimum_stock,
			:unit, :hsn_code, :created_at, :updated_at
		)`, products)
	if err != nil {
		return fmt.Errorf("productRepo.CreateBatch: %w", err)
	}
	return nil
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	var p domain.Product
	err := r.db.GetContext(ctx, &p, "SELECT * FROM products WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("productRepo.GetByID: %w", err)
	}
	return &p, nil
}

// FindByNames matches products case-insensitively against the given names in
// a single query. Callers rely on this being one round trip for the batch.
func (r *productRepo) FindByNames(ctx context.Context, names []string) ([]domain.Product, error) {
	if len(names) == 0 {
		return nil, nil
	}
	lowered := make([]string, 0, len(names))
	for _, n := range names {
		lowered = append(lowered, strings.ToLower(strings.TrimSpace(n)))
	}

	query, args, err := sqlx.In("SELECT * FROM products WHERE lower(name) IN (?)", lowered)
	if err != nil {
		return nil, fmt.Errorf("productRepo.FindByNames: %w", err)
	}
	query = r.db.Rebind(query)

	var products []domain.Product
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("productRepo.FindByNames: %w", err)
	}
	return products, nil
}

func (r *productRepo) AddStock(ctx context.Context, id uuid.UUID, quantity, purchaseRate decimal.Decimal) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products
		 SET current_stock = current_stock + $1, purchase_rate = $2, updated_at = $3
		 WHERE id = $4`,
		quantity, purchaseRate, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("productRepo.AddStock: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *productRepo) RemoveStock(ctx context.Context, id uuid.UUID, quantity decimal.Decimal) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products
		 SET current_stock = GREATEST(current_stock - $1, 0), updated_at = $2
		 WHERE id = $3`,
		quantity, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("productRepo.RemoveStock: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *productRepo) List(ctx context.Context, search string, offset, limit int) ([]domain.Product, int, error) {
	where := ""
	args := []interface{}{}
	if search != "" {
		where = "WHERE name ILIKE $1 OR part_number ILIKE $1"
		args = append(args, "%"+search+"%")
	}

	var total int
	if err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM products "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("productRepo.List count: %w", err)
	}

	query := fmt.Sprintf("SELECT * FROM products %s ORDER BY name LIMIT $%d OFFSET $%d",
		where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	var products []domain.Product
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, 0, fmt.Errorf("productRepo.List: %w", err)
	}
	return products, total, nil
}
