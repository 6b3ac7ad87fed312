package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/floresya/floresya/internal/catalog/domain"
	pkgdb "github.com/floresya/floresya/pkg/db"
	"github.com/shopspring/decimal"
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

func TestProductList_OccasionJoinSkipsDeletedOccasions(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewProductRepository(database)

	joined := `JOIN occasions o ON o\.id = po\.occasion_id AND o\.deleted_at IS NULL`
	mock.ExpectQuery(joined).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(joined).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, total, err := repo.List(context.Background(), domain.ProductFilter{
		OccasionSlug: "cumpleanos",
		Limit:        20,
	})

	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductSave_RunsInTransaction(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewProductRepository(database)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "products"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	product := &domain.Product{
		Name:     "Rosas Rojas",
		PriceUSD: decimal.RequireFromString("25.00"),
		Active:   true,
	}
	require.NoError(t, repo.Save(context.Background(), product, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductSave_RollsBackOnFailure(t *testing.T) {
	database, mock := newMockDB(t)
	repo := NewProductRepository(database)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "products"`).
		WillReturnError(errors.New("insert failed"))
	mock.ExpectRollback()

	product := &domain.Product{
		Name:     "Rosas Rojas",
		PriceUSD: decimal.RequireFromString("25.00"),
	}
	require.Error(t, repo.Save(context.Background(), product, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}
