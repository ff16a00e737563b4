package service

import (
	"errors"
	"testing"
	"time"

	"go-store-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeStockStore keeps products in memory and mimics the repository's
// conditional decrement semantics.
type fakeStockStore struct {
	products     map[string]*model.Product // by barcode
	decrementErr error
	findByIDErr  error
}

func newFakeStockStore(products ...*model.Product) *fakeStockStore {
	s := &fakeStockStore{products: make(map[string]*model.Product)}
	for _, p := range products {
		s.products[p.Barcode] = p
	}
	return s
}

func (s *fakeStockStore) FindByBarcode(barcode string) (*model.Product, error) {
	p, ok := s.products[barcode]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (s *fakeStockStore) FindByID(id uuid.UUID) (*model.Product, error) {
	if s.findByIDErr != nil {
		return nil, s.findByIDErr
	}
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeStockStore) DecrementStock(id uuid.UUID, quantity int) (int64, error) {
	if s.decrementErr != nil {
		return 0, s.decrementErr
	}
	for _, p := range s.products {
		if p.ID == id {
			if p.StockQuantity < quantity {
				return 0, nil
			}
			p.StockQuantity -= quantity
			return 1, nil
		}
	}
	return 0, nil
}

type fakeSaleStore struct {
	sales     []*model.Transaction
	createErr error
}

func (s *fakeSaleStore) Create(tx *model.Transaction) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.sales = append(s.sales, tx)
	return nil
}

func stockedProduct(barcode, name, price string, stock int) *model.Product {
	p := &model.Product{
		Barcode:       barcode,
		Name:          name,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
	}
	p.ID = uuid.New()
	return p
}

func newTestCheckout(products *fakeStockStore, sales *fakeSaleStore) CheckoutService {
	svc := NewCheckoutService(products, sales, nil)
	svc.(*checkoutService).now = func() time.Time {
		return time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)
	}
	return svc
}

func TestCheckoutEmptyCartIsRejectedWithoutWrites(t *testing.T) {
	products := newFakeStockStore()
	sales := &fakeSaleStore{}
	svc := newTestCheckout(products, sales)

	_, err := svc.Checkout(Caller{ID: "u1"}, model.NewCart())

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Empty(t, sales.sales)
}

func TestCheckoutSuccessDebitsAllAndRecordsSale(t *testing.T) {
	soda := stockedProduct("111", "Soda", "30.00", 10)
	chips := stockedProduct("222", "Chips", "10.00", 10)
	products := newFakeStockStore(soda, chips)
	sales := &fakeSaleStore{}
	svc := newTestCheckout(products, sales)

	cart, err := svc.BuildCart([]CartItemInput{
		{Barcode: "111", Quantity: 1},
		{Barcode: "222", Quantity: 2},
	})
	require.NoError(t, err)

	sale, err := svc.Checkout(Caller{ID: "u1", Name: "Cashier"}, cart)
	require.NoError(t, err)

	assert.Equal(t, 9, soda.StockQuantity)
	assert.Equal(t, 8, chips.StockQuantity)
	assert.True(t, sale.TotalAmount.Equal(decimal.RequireFromString("50.00")),
		"total = %s, want 50.00", sale.TotalAmount)
	require.Len(t, sales.sales, 1)
	assert.Len(t, sale.Items, 2)
	assert.Equal(t, 0, cart.Len(), "cart must be cleared after success")
}

func TestCheckoutInsufficientStockReportsAvailability(t *testing.T) {
	soda := stockedProduct("111", "Soda", "1.50", 5)
	products := newFakeStockStore(soda)
	sales := &fakeSaleStore{}
	svc := newTestCheckout(products, sales)

	cart, err := svc.BuildCart([]CartItemInput{{Barcode: "111", Quantity: 6}})
	require.NoError(t, err)

	_, err = svc.Checkout(Caller{ID: "u1"}, cart)

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "111", stockErr.Barcode)
	assert.Equal(t, 5, stockErr.Available)
	assert.Equal(t, 6, stockErr.Requested)
	assert.Equal(t, 5, soda.StockQuantity, "failed line must leave stock unchanged")
	assert.Empty(t, sales.sales)
	assert.NotEqual(t, 0, cart.Len(), "cart must survive a failed checkout")
}

func TestCheckoutMidCartFailureKeepsEarlierDebits(t *testing.T) {
	soda := stockedProduct("111", "Soda", "1.50", 10)
	chips := stockedProduct("222", "Chips", "2.00", 1)
	products := newFakeStockStore(soda, chips)
	sales := &fakeSaleStore{}
	svc := newTestCheckout(products, sales)

	cart, err := svc.BuildCart([]CartItemInput{
		{Barcode: "111", Quantity: 3},
		{Barcode: "222", Quantity: 2},
	})
	require.NoError(t, err)

	_, err = svc.Checkout(Caller{ID: "u1"}, cart)

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "222", stockErr.Barcode)

	// Sequential processing with no rollback: the first line stays debited.
	assert.Equal(t, 7, soda.StockQuantity)
	assert.Equal(t, 1, chips.StockQuantity)
	assert.Empty(t, sales.sales)
}

func TestCheckoutDepletedProductReportsZeroAvailable(t *testing.T) {
	soda := stockedProduct("111", "Soda", "1.50", 1)
	products := newFakeStockStore(soda)
	sales := &fakeSaleStore{}
	svc := newTestCheckout(products, sales)

	cart, err := svc.BuildCart([]CartItemInput{{Barcode: "111", Quantity: 1}})
	require.NoError(t, err)
	_, err = svc.Checkout(Caller{ID: "u1"}, cart)
	require.NoError(t, err)
	require.Equal(t, 0, soda.StockQuantity)

	cart, err = svc.BuildCart([]CartItemInput{{Barcode: "111", Quantity: 1}})
	require.NoError(t, err)
	_, err = svc.Checkout(Caller{ID: "u1"}, cart)

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 0, stockErr.Available)
	assert.Equal(t, 1, stockErr.Requested)
}

func TestBuildCartUnknownBarcode(t *testing.T) {
	products := newFakeStockStore()
	svc := newTestCheckout(products, &fakeSaleStore{})

	_, err := svc.BuildCart([]CartItemInput{{Barcode: "ghost", Quantity: 1}})

	var notFoundErr *ProductNotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	assert.Equal(t, "ghost", notFoundErr.Barcode)
}

func TestCheckoutVanishedProductAtDebitTime(t *testing.T) {
	soda := stockedProduct("111", "Soda", "1.50", 5)
	products := newFakeStockStore(soda)
	sales := &fakeSaleStore{}
	svc := newTestCheckout(products, sales)

	cart, err := svc.BuildCart([]CartItemInput{{Barcode: "111", Quantity: 1}})
	require.NoError(t, err)

	// Product deleted between add-to-cart and checkout.
	delete(products.products, "111")

	_, err = svc.Checkout(Caller{ID: "u1"}, cart)

	var notFoundErr *ProductNotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	assert.Equal(t, "111", notFoundErr.Barcode)
}

func TestCheckoutRereadFailureIsAStoreError(t *testing.T) {
	soda := stockedProduct("111", "Soda", "1.50", 5)
	products := newFakeStockStore(soda)
	sales := &fakeSaleStore{}
	svc := newTestCheckout(products, sales)

	cart, err := svc.BuildCart([]CartItemInput{{Barcode: "111", Quantity: 6}})
	require.NoError(t, err)

	// Decrement matches zero rows (short on stock), then the
	// disambiguating re-read hits a transient store failure. The product
	// still exists, so this must not be reported as a vanished product.
	products.findByIDErr = errors.New("connection reset by peer")

	_, err = svc.Checkout(Caller{ID: "u1"}, cart)

	var updateErr *StockUpdateError
	require.ErrorAs(t, err, &updateErr)
	assert.Equal(t, "111", updateErr.Barcode)

	var notFoundErr *ProductNotFoundError
	assert.False(t, errors.As(err, &notFoundErr))
	assert.Empty(t, sales.sales)
}

func TestCheckoutStockWriteFailure(t *testing.T) {
	soda := stockedProduct("111", "Soda", "1.50", 5)
	products := newFakeStockStore(soda)
	products.decrementErr = errors.New("connection reset")
	sales := &fakeSaleStore{}
	svc := newTestCheckout(products, sales)

	cart, err := svc.BuildCart([]CartItemInput{{Barcode: "111", Quantity: 1}})
	require.NoError(t, err)

	_, err = svc.Checkout(Caller{ID: "u1"}, cart)

	var updateErr *StockUpdateError
	require.ErrorAs(t, err, &updateErr)
	assert.Equal(t, "111", updateErr.Barcode)
	assert.Empty(t, sales.sales)
}

func TestCheckoutCommitFailureAfterDebits(t *testing.T) {
	soda := stockedProduct("111", "Soda", "1.50", 5)
	products := newFakeStockStore(soda)
	sales := &fakeSaleStore{createErr: errors.New("insert failed")}
	svc := newTestCheckout(products, sales)

	cart, err := svc.BuildCart([]CartItemInput{{Barcode: "111", Quantity: 2}})
	require.NoError(t, err)

	_, err = svc.Checkout(Caller{ID: "u1"}, cart)

	var commitErr *TransactionCommitError
	require.ErrorAs(t, err, &commitErr)

	// Stock was debited and stays debited; the divergence is surfaced, not
	// silently repaired.
	assert.Equal(t, 3, soda.StockQuantity)
	assert.NotEqual(t, 0, cart.Len(), "cart must survive a failed commit")
}

func TestCheckoutCartLevelValidation(t *testing.T) {
	soda := stockedProduct("111", "Soda", "1000000", 5)
	products := newFakeStockStore(soda)
	svc := newTestCheckout(products, &fakeSaleStore{})

	// 11 x 1,000,000 exceeds the transaction ceiling.
	cart, err := svc.BuildCart([]CartItemInput{{Barcode: "111", Quantity: 11}})
	require.NoError(t, err)

	_, err = svc.Checkout(Caller{ID: "u1"}, cart)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, 5, soda.StockQuantity, "validation must precede any write")
}
