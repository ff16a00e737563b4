package service

import "fmt"

// The checkout error taxonomy. Every failure carries enough detail for the
// register UI to name the offending product and let the cashier correct the
// cart and retry the whole checkout.

// ValidationError means the cart itself violates the schema (empty cart,
// out-of-range quantity or total). No store access was attempted.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid cart: " + e.Reason
}

// ProductNotFoundError means a referenced product vanished between
// add-to-cart and checkout. Processing stopped at this item.
type ProductNotFoundError struct {
	Barcode string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s no longer exists", e.Barcode)
}

// InsufficientStockError means a stock race or genuine shortage. Processing
// stopped at this item; its stock is unchanged.
type InsufficientStockError struct {
	Barcode   string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: %d available, %d requested", e.Barcode, e.Available, e.Requested)
}

// StockUpdateError means the catalog write itself failed. Items debited
// before this one stay debited.
type StockUpdateError struct {
	Barcode string
	Err     error
}

func (e *StockUpdateError) Error() string {
	return fmt.Sprintf("stock update failed for %s: %v", e.Barcode, e.Err)
}

func (e *StockUpdateError) Unwrap() error { return e.Err }

// TransactionCommitError means every stock debit succeeded but the sale row
// insert did not: stock and ledger have diverged and need manual
// reconciliation. The most severe failure in the taxonomy.
type TransactionCommitError struct {
	Err error
}

func (e *TransactionCommitError) Error() string {
	return fmt.Sprintf("transaction commit failed after stock was debited: %v", e.Err)
}

func (e *TransactionCommitError) Unwrap() error { return e.Err }
