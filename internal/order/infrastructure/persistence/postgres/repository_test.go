package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/floresya/floresya/internal/order/domain"
	pkgdb "github.com/floresya/floresya/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	driver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*pkgdb.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(driver.New(driver.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return &pkgdb.DB{DB: gdb}, mock
}

func confirmedPair() (*domain.Order, *domain.Payment) {
	order := &domain.Order{
		OrderNumber: "FY-TEST1234",
		Status:      domain.OrderStatusVerified,
	}
	order.ID = 1

	payment := &domain.Payment{
		OrderID: order.ID,
		Method:  domain.PaymentMethodZelle,
		Status:  domain.PaymentStatusConfirmed,
	}
	payment.ID = 2
	return order, payment
}

func TestSaveWithPayment_CommitsBothWrites(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewOrderRepository(database)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "orders"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "payments"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	order, payment := confirmedPair()
	require.NoError(t, repo.SaveWithPayment(context.Background(), order, payment))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveWithPayment_RollsBackWhenPaymentFails(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewOrderRepository(database)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "orders"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "payments"`).
		WillReturnError(errors.New("update failed"))
	mock.ExpectRollback()

	order, payment := confirmedPair()
	require.Error(t, repo.SaveWithPayment(context.Background(), order, payment))
	assert.NoError(t, mock.ExpectationsWereMet())
}
