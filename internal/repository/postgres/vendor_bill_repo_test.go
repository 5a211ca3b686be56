package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autostock/internal/domain"
	"autostock/internal/repository/postgres"
)

func newBill() *domain.VendorBill {
	return &domain.VendorBill{
		ID:            uuid.New(),
		VendorID:      uuid.New(),
		BillNumber:    "INV-001",
		BillDate:      "2026-08-15",
		TotalAmount:   decimal.NewFromInt(708),
		PaymentStatus: domain.PaymentStatusUnpaid,
	}
}

func TestVendorBillRepo_CreateMapsUniqueViolation(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewVendorBillRepo(db)

	mock.ExpectExec("INSERT INTO vendor_bills").
		WillReturnError(&pgconn.PgError{
			Code:           "23505",
			ConstraintName: "vendor_bills_vendor_bill_number_key",
		})

	err := repo.Create(context.Background(), newBill())

	assert.ErrorIs(t, err, domain.ErrDuplicateBill)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVendorBillRepo_CreatePassesThroughOtherErrors(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewVendorBillRepo(db)

	mock.ExpectExec("INSERT INTO vendor_bills").
		WillReturnError(errors.New("connection reset"))

	err := repo.Create(context.Background(), newBill())

	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrDuplicateBill)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVendorBillRepo_CreateSucceeds(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewVendorBillRepo(db)

	mock.ExpectExec("INSERT INTO vendor_bills").
		WillReturnResult(sqlmock.NewResult(0, 1))

	bill := newBill()
	err := repo.Create(context.Background(), bill)

	require.NoError(t, err)
	assert.False(t, bill.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}
