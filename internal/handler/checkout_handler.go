package handler

import (
	"errors"

	"go-store-pos/internal/middleware"
	"go-store-pos/internal/repository"
	"go-store-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CheckoutHandler struct {
	checkout service.CheckoutService
	txRepo   repository.TransactionRepository
}

func NewCheckoutHandler(checkout service.CheckoutService, txRepo repository.TransactionRepository) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, txRepo: txRepo}
}

// CheckoutRequest is the sale request body: the cart lines as scanned.
type CheckoutRequest struct {
	Items []service.CartItemInput `json:"items"`
}

// Checkout completes a sale
// POST /api/v1/checkout
func (h *CheckoutHandler) Checkout(c *fiber.Ctx) error {
	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	cart, err := h.checkout.BuildCart(req.Items)
	if err != nil {
		return h.writeCheckoutError(c, err)
	}

	caller := middleware.CallerFromCtx(c)
	sale, err := h.checkout.Checkout(caller, cart)
	if err != nil {
		return h.writeCheckoutError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Sale completed", "data": sale})
}

// writeCheckoutError maps the reconciler's error types onto HTTP statuses.
// Insufficient stock and vanished products are conflicts with live catalog
// state, a failed stock write is an upstream failure, and a failed commit
// after debits is the one case that needs manual reconciliation.
func (h *CheckoutHandler) writeCheckoutError(c *fiber.Ctx, err error) error {
	var (
		validationErr *service.ValidationError
		notFoundErr   *service.ProductNotFoundError
		stockErr      *service.InsufficientStockError
		updateErr     *service.StockUpdateError
		commitErr     *service.TransactionCommitError
	)

	switch {
	case errors.As(err, &validationErr):
		return c.Status(400).JSON(fiber.Map{"error": validationErr.Error()})
	case errors.As(err, &notFoundErr):
		return c.Status(409).JSON(fiber.Map{
			"error":   notFoundErr.Error(),
			"barcode": notFoundErr.Barcode,
		})
	case errors.As(err, &stockErr):
		return c.Status(409).JSON(fiber.Map{
			"error":     stockErr.Error(),
			"barcode":   stockErr.Barcode,
			"available": stockErr.Available,
			"requested": stockErr.Requested,
		})
	case errors.As(err, &updateErr):
		return c.Status(502).JSON(fiber.Map{
			"error":   updateErr.Error(),
			"barcode": updateErr.Barcode,
		})
	case errors.As(err, &commitErr):
		return c.Status(500).JSON(fiber.Map{"error": commitErr.Error()})
	default:
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
}

// GetTransactions lists the sales log, most recent first
// GET /api/v1/transactions
func (h *CheckoutHandler) GetTransactions(c *fiber.Ctx) error {
	transactions, err := h.txRepo.FindAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(transactions)
}

// GetTransaction returns a single sale with its line items
// GET /api/v1/transactions/:id
func (h *CheckoutHandler) GetTransaction(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	tx, err := h.txRepo.FindByID(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Transaction not found"})
	}
	return c.JSON(tx)
}
