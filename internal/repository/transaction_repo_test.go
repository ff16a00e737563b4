package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

// Revenue rows must come back keyed by plain YYYY-MM-DD strings. A bare
// DATE() column scans as time.Time and its string rendering would never
// match the calendar keys the analytics layer groups by.
func TestRevenueByDayUsesPlainDateStrings(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionRepo(db)

	mock.ExpectQuery(`to_char\(transaction_date, 'YYYY-MM-DD'\)`).
		WillReturnRows(sqlmock.NewRows([]string{"date", "revenue"}).
			AddRow("2025-03-12", "42.50").
			AddRow("2025-03-14", "10.00"))

	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 14, 23, 59, 59, 0, time.UTC)

	results, err := repo.RevenueByDay(start, end)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "2025-03-12", results[0].Date)
	assert.True(t, results[0].Revenue.Equal(decimal.RequireFromString("42.50")))
	assert.Equal(t, "2025-03-14", results[1].Date)
	assert.True(t, results[1].Revenue.Equal(decimal.RequireFromString("10.00")))

	assert.NoError(t, mock.ExpectationsWereMet())
}
