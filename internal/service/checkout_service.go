package service

import (
	"errors"
	"time"

	"go-store-pos/internal/model"
	"go-store-pos/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// maxTransactionTotal is the largest sale the register accepts.
var maxTransactionTotal = decimal.NewFromInt(10000000)

// StockStore is the slice of the product repository the reconciler needs.
type StockStore interface {
	FindByID(id uuid.UUID) (*model.Product, error)
	FindByBarcode(barcode string) (*model.Product, error)
	DecrementStock(id uuid.UUID, quantity int) (int64, error)
}

// SaleStore appends completed sales to the transaction log.
type SaleStore interface {
	Create(tx *model.Transaction) error
}

// CartItemInput is one requested line of a checkout call, before the cart is
// built from live catalog state.
type CartItemInput struct {
	Barcode  string `json:"barcode"`
	Quantity int    `json:"quantity"`
}

type CheckoutService interface {
	BuildCart(items []CartItemInput) (*model.Cart, error)
	Checkout(caller Caller, cart *model.Cart) (*model.Transaction, error)
}

type checkoutService struct {
	products StockStore
	sales    SaleStore
	wsHub    *ws.Hub
	now      func() time.Time
}

func NewCheckoutService(products StockStore, sales SaleStore, hub *ws.Hub) CheckoutService {
	return &checkoutService{
		products: products,
		sales:    sales,
		wsHub:    hub,
		now:      time.Now,
	}
}

// BuildCart turns the raw request items into a cart, merging duplicate
// barcodes and freezing each product's current price.
func (s *checkoutService) BuildCart(items []CartItemInput) (*model.Cart, error) {
	cart := model.NewCart()
	for _, in := range items {
		product, err := s.products.FindByBarcode(in.Barcode)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &ProductNotFoundError{Barcode: in.Barcode}
			}
			return nil, err
		}
		cart.AddOrIncrement(product, in.Quantity)
	}
	return cart, nil
}

// Checkout validates the cart, debits stock per line item in cart order, and
// appends one transaction row.
//
// Items are processed strictly sequentially and processing stops at the
// first failure. Items debited before the stop point stay debited: there is
// no rollback, so a mid-cart failure leaves a partial debit the cashier
// resolves by retrying or correcting the cart. The per-item debit itself is
// a conditional single-statement write, so an individual product's stock can
// never go negative even when two registers sell it at the same moment.
func (s *checkoutService) Checkout(caller Caller, cart *model.Cart) (*model.Transaction, error) {
	if err := validateCart(cart); err != nil {
		return nil, err
	}

	items := cart.Items()
	for _, item := range items {
		affected, err := s.products.DecrementStock(item.ProductID, item.Quantity)
		if err != nil {
			return nil, &StockUpdateError{Barcode: item.Barcode, Err: err}
		}
		if affected == 0 {
			// The guarded write matched nothing: either the product is gone
			// or it is short on stock. Re-read to tell the two apart. Only a
			// confirmed missing row means the product vanished; a transient
			// store error on the re-read is a store failure, not a deletion.
			product, err := s.products.FindByID(item.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, &ProductNotFoundError{Barcode: item.Barcode}
				}
				return nil, &StockUpdateError{Barcode: item.Barcode, Err: err}
			}
			if product == nil {
				return nil, &ProductNotFoundError{Barcode: item.Barcode}
			}
			return nil, &InsufficientStockError{
				Barcode:   item.Barcode,
				Available: product.StockQuantity,
				Requested: item.Quantity,
			}
		}
	}

	sale := &model.Transaction{
		TotalAmount:     cart.Total(),
		Items:           model.TransactionItems(items),
		TransactionDate: s.now(),
	}
	sale.CreatedBy = caller.ID
	sale.UpdatedBy = caller.ID
	if caller.ID != "" {
		id := caller.ID
		sale.CreatedByUserID = &id
	}

	if err := s.sales.Create(sale); err != nil {
		// Stock is already debited with no matching sale row. Surfaced as
		// the distinct commit error so the shop can reconcile manually.
		return nil, &TransactionCommitError{Err: err}
	}

	cart.Clear()

	if s.wsHub != nil {
		go s.wsHub.BroadcastJSON(map[string]interface{}{
			"type":   "stock_update",
			"action": "sale_completed",
			"sale": map[string]interface{}{
				"id":           sale.ID,
				"total_amount": sale.TotalAmount,
				"item_count":   len(sale.Items),
			},
			"user": map[string]interface{}{
				"id":    caller.ID,
				"name":  caller.Name,
				"email": caller.Email,
			},
		})
	}

	return sale, nil
}

func validateCart(cart *model.Cart) error {
	if cart == nil || cart.Len() == 0 {
		return &ValidationError{Reason: "cart must contain at least one item"}
	}
	for _, item := range cart.Items() {
		if item.Quantity < model.MinLineQuantity || item.Quantity > model.MaxLineQuantity {
			return &ValidationError{Reason: "line quantity out of range for " + item.Barcode}
		}
		if item.UnitPrice.IsNegative() {
			return &ValidationError{Reason: "negative unit price for " + item.Barcode}
		}
	}
	if cart.Total().GreaterThan(maxTransactionTotal) {
		return &ValidationError{Reason: "cart total exceeds transaction limit"}
	}
	return nil
}
