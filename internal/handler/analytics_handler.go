package handler

import (
	"go-store-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AnalyticsHandler struct {
	analytics   service.AnalyticsService
	revenueDays int
}

func NewAnalyticsHandler(analytics service.AnalyticsService, revenueDays int) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, revenueDays: revenueDays}
}

// GetDashboardStats returns the overview cards
// GET /api/v1/dashboard/stats
func (h *AnalyticsHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.analytics.GetDashboardStats()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(stats)
}

// GetCategoryBreakdown returns product counts per category
// GET /api/v1/analytics/categories
func (h *AnalyticsHandler) GetCategoryBreakdown(c *fiber.Ctx) error {
	breakdown, err := h.analytics.GetCategoryBreakdown()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(breakdown)
}

// GetStockLevels returns the stock chart data
// GET /api/v1/analytics/stock-levels?limit=10
func (h *AnalyticsHandler) GetStockLevels(c *fiber.Ctx) error {
	levels, err := h.analytics.GetStockLevels(c.QueryInt("limit", 10))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(levels)
}

// GetRevenueSeries returns daily revenue for the trailing window
// GET /api/v1/analytics/revenue?days=7
func (h *AnalyticsHandler) GetRevenueSeries(c *fiber.Ctx) error {
	series, err := h.analytics.GetRevenueSeries(c.QueryInt("days", h.revenueDays))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(series)
}
