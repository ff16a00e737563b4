package service

import (
	"testing"
	"time"

	"go-store-pos/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFillRevenueSeriesZeroFillsGaps(t *testing.T) {
	end := time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC)
	rows := []repository.DailyRevenue{
		{Date: "2025-03-12", Revenue: decimal.RequireFromString("42.50")},
		{Date: "2025-03-14", Revenue: decimal.RequireFromString("10.00")},
	}

	series := fillRevenueSeries(5, end, rows)

	require.Len(t, series, 5)
	assert.Equal(t, "2025-03-10", series[0].Date)
	assert.Equal(t, "2025-03-14", series[4].Date)

	assert.True(t, series[0].Revenue.IsZero())
	assert.True(t, series[1].Revenue.IsZero())
	assert.True(t, series[2].Revenue.Equal(decimal.RequireFromString("42.50")))
	assert.True(t, series[3].Revenue.IsZero())
	assert.True(t, series[4].Revenue.Equal(decimal.RequireFromString("10.00")))
}

func TestFillRevenueSeriesEmptyRows(t *testing.T) {
	end := time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC)

	series := fillRevenueSeries(3, end, nil)

	require.Len(t, series, 3)
	for _, point := range series {
		assert.True(t, point.Revenue.IsZero(), "day %s should be zero", point.Date)
	}
}
