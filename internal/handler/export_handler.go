package handler

import (
	"time"

	"go-store-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ExportHandler struct {
	export service.ExportService
}

func NewExportHandler(export service.ExportService) *ExportHandler {
	return &ExportHandler{export: export}
}

// SyncSheets pushes the current data into the configured spreadsheet
// POST /api/v1/export/sheets
func (h *ExportHandler) SyncSheets(c *fiber.Ctx) error {
	stats, err := h.export.SyncToSheets(c.Context())
	if err != nil {
		return c.Status(502).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Sheets synced", "data": stats})
}

// DownloadWorkbook streams the same export as an .xlsx download
// GET /api/v1/export/workbook
func (h *ExportHandler) DownloadWorkbook(c *fiber.Ctx) error {
	workbook, err := h.export.BuildWorkbook()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to build workbook"})
	}
	defer workbook.Close()

	filename := "store-export-" + time.Now().Format("2006-01-02") + ".xlsx"
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)

	return workbook.Write(c.Response().BodyWriter())
}
