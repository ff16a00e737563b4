package handler

import (
	"go-store-pos/internal/middleware"
	"go-store-pos/internal/model"
	"go-store-pos/internal/repository"
	"go-store-pos/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

type ExpenseHandler struct {
	expenseRepo repository.ExpenseRepository
}

func NewExpenseHandler(expenseRepo repository.ExpenseRepository) *ExpenseHandler {
	return &ExpenseHandler{expenseRepo: expenseRepo}
}

// CreateExpense records a shop expense
// POST /api/v1/expenses
func (h *ExpenseHandler) CreateExpense(c *fiber.Ctx) error {
	var expense model.Expense
	if err := c.BodyParser(&expense); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if errs := validator.ValidateStruct(&expense); len(errs) > 0 {
		firstErr := errs[0]
		return c.Status(400).JSON(fiber.Map{
			"error": "Validation failed: field '" + firstErr.FailedField + "' failed on tag '" + firstErr.Tag + "'",
		})
	}

	caller := middleware.CallerFromCtx(c)
	expense.CreatedBy = caller.ID
	expense.UpdatedBy = caller.ID
	if caller.ID != "" {
		id := caller.ID
		expense.CreatedByUserID = &id
	}

	if err := h.expenseRepo.Create(&expense); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to record expense"})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Expense recorded", "data": expense})
}

// GetExpenses lists all expenses, most recent first
// GET /api/v1/expenses
func (h *ExpenseHandler) GetExpenses(c *fiber.Ctx) error {
	expenses, err := h.expenseRepo.FindAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(expenses)
}
