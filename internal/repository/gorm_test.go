package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suteetoe/marketplace/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockRepository(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return New(db), mock
}

func TestDecrementStock(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(`UPDATE "products" SET "quantity"=quantity - \$1 WHERE .*id = \$2 AND quantity >= \$3`).
		WithArgs(3, 5, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Products().DecrementStock(context.Background(), 5, 3)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecrementStockInsufficient(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(`UPDATE "products" SET "quantity"=quantity - \$1`).
		WithArgs(3, 5, 3).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Products().DecrementStock(context.Background(), 5, 3)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountByRole(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE role = \$1`).
		WithArgs("admin").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	count, err := repo.Users().CountByRole(context.Background(), model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByUsernameNotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE username = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}))

	_, err := repo.Users().GetByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusMissingOrder(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(`UPDATE "orders" SET "status"=\$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Orders().UpdateStatus(context.Background(), 42, model.OrderShipped)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRollsBackOnError(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "products" SET "quantity"=quantity - \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Transaction(context.Background(), func(tx Repository) error {
		return tx.Products().DecrementStock(context.Background(), 1, 10)
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLatestForOrdersKeepsNewestPerOrder(t *testing.T) {
	repo, mock := newMockRepository(t)

	rows := sqlmock.NewRows([]string{"id", "order_id", "amount_paid", "method", "status"}).
		AddRow(9, 1, 100.0, "GCash", "Completed").
		AddRow(4, 1, 100.0, "Cash on Delivery", "Pending").
		AddRow(3, 2, 50.0, "Cash on Delivery", "Pending")
	mock.ExpectQuery(`SELECT \* FROM "payments" WHERE order_id IN \(\$1,\$2\)`).
		WithArgs(1, 2).
		WillReturnRows(rows)

	latest, err := repo.Payments().LatestForOrders(context.Background(), []uint{1, 2})
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, uint(9), latest[1].ID)
	assert.Equal(t, model.PaymentCompleted, latest[1].Status)
	assert.Equal(t, uint(3), latest[2].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLatestForOrdersEmpty(t *testing.T) {
	repo, mock := newMockRepository(t)

	latest, err := repo.Payments().LatestForOrders(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, latest)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByOrderNewestFirst(t *testing.T) {
	repo, mock := newMockRepository(t)

	rows := sqlmock.NewRows([]string{"id", "order_id", "amount_paid", "method", "status"}).
		AddRow(9, 1, 100.0, "PayPal", "Completed").
		AddRow(4, 1, 100.0, "Cash on Delivery", "Pending")
	mock.ExpectQuery(`SELECT \* FROM "payments" WHERE order_id = \$1 ORDER BY paid_at DESC,id DESC`).
		WithArgs(1).
		WillReturnRows(rows)

	history, err := repo.Payments().ListByOrder(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "PayPal", history[0].Method)
	assert.Equal(t, model.PaymentPending, history[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
