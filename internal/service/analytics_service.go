package service

import (
	"time"

	"go-store-pos/internal/repository"

	"github.com/shopspring/decimal"
)

// DashboardStats mirrors the home-screen overview cards.
type DashboardStats struct {
	TotalProducts  int64           `json:"total_products"`
	LowStockCount  int64           `json:"low_stock_count"`
	TotalValuation decimal.Decimal `json:"total_valuation"`
	CategoryCount  int64           `json:"category_count"`
}

type AnalyticsService interface {
	GetDashboardStats() (*DashboardStats, error)
	GetCategoryBreakdown() ([]repository.CategoryCount, error)
	GetStockLevels(limit int) ([]repository.StockLevel, error)
	GetRevenueSeries(days int) ([]repository.DailyRevenue, error)
}

type analyticsService struct {
	productRepo       repository.ProductRepository
	txRepo            repository.TransactionRepository
	lowStockThreshold int
	now               func() time.Time
}

func NewAnalyticsService(pRepo repository.ProductRepository, txRepo repository.TransactionRepository, lowStockThreshold int) AnalyticsService {
	return &analyticsService{
		productRepo:       pRepo,
		txRepo:            txRepo,
		lowStockThreshold: lowStockThreshold,
		now:               time.Now,
	}
}

func (s *analyticsService) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{}

	var err error
	if stats.TotalProducts, err = s.productRepo.CountAll(); err != nil {
		return nil, err
	}
	if stats.LowStockCount, err = s.productRepo.CountLowStock(s.lowStockThreshold); err != nil {
		return nil, err
	}
	if stats.TotalValuation, err = s.productRepo.TotalValuation(); err != nil {
		return nil, err
	}
	if stats.CategoryCount, err = s.productRepo.CountCategories(); err != nil {
		return nil, err
	}

	return stats, nil
}

func (s *analyticsService) GetCategoryBreakdown() ([]repository.CategoryCount, error) {
	return s.productRepo.CategoryCounts()
}

func (s *analyticsService) GetStockLevels(limit int) ([]repository.StockLevel, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.productRepo.StockLevels(limit)
}

// GetRevenueSeries returns one point per calendar day for the trailing
// window, including zero-revenue days, so the chart has no gaps.
func (s *analyticsService) GetRevenueSeries(days int) ([]repository.DailyRevenue, error) {
	if days <= 0 {
		days = 7
	}

	end := s.now()
	start := end.AddDate(0, 0, -(days - 1))
	startOfWindow := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())

	rows, err := s.txRepo.RevenueByDay(startOfWindow, end)
	if err != nil {
		return nil, err
	}

	return fillRevenueSeries(days, end, rows), nil
}

// fillRevenueSeries overlays the queried rows onto a dense trailing window
// ending on the given day.
func fillRevenueSeries(days int, end time.Time, rows []repository.DailyRevenue) []repository.DailyRevenue {
	byDate := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		byDate[row.Date] = row.Revenue
	}

	series := make([]repository.DailyRevenue, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := end.AddDate(0, 0, -i).Format("2006-01-02")
		revenue, ok := byDate[date]
		if !ok {
			revenue = decimal.Zero
		}
		series = append(series, repository.DailyRevenue{Date: date, Revenue: revenue})
	}
	return series
}
