package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProduct(barcode, name, price string) *Product {
	p := &Product{
		Barcode: barcode,
		Name:    name,
		Price:   decimal.RequireFromString(price),
	}
	p.ID = uuid.New()
	return p
}

func TestCartAddOrIncrementMergesByBarcode(t *testing.T) {
	cart := NewCart()
	soda := testProduct("111", "Soda", "1.50")

	cart.AddOrIncrement(soda, 1)
	cart.AddOrIncrement(soda, 1)
	cart.AddOrIncrement(soda, 3)

	require.Equal(t, 1, cart.Len())
	assert.Equal(t, 5, cart.Items()[0].Quantity)
}

func TestCartAddOrIncrementClampsQuantity(t *testing.T) {
	cart := NewCart()
	soda := testProduct("111", "Soda", "1.50")

	cart.AddOrIncrement(soda, 600)
	cart.AddOrIncrement(soda, 600)

	assert.Equal(t, MaxLineQuantity, cart.Items()[0].Quantity)

	cart2 := NewCart()
	cart2.AddOrIncrement(soda, 0)
	assert.Equal(t, MinLineQuantity, cart2.Items()[0].Quantity)
}

func TestCartPriceSnapshotFrozenAtAdd(t *testing.T) {
	cart := NewCart()
	soda := testProduct("111", "Soda", "1.50")

	cart.AddOrIncrement(soda, 2)

	// A catalog edit after add must not change the cart line.
	soda.Price = decimal.RequireFromString("9.99")
	cart.AddOrIncrement(soda, 1)

	line := cart.Items()[0]
	assert.True(t, line.UnitPrice.Equal(decimal.RequireFromString("1.50")),
		"unit price changed after catalog edit: %s", line.UnitPrice)
	assert.Equal(t, 3, line.Quantity)
}

func TestCartAdjustQuantityClampsAndIgnoresAbsent(t *testing.T) {
	cart := NewCart()
	soda := testProduct("111", "Soda", "1.50")
	cart.AddOrIncrement(soda, 5)

	cart.AdjustQuantity("111", -10)
	assert.Equal(t, MinLineQuantity, cart.Items()[0].Quantity)

	cart.AdjustQuantity("111", 2*MaxLineQuantity)
	assert.Equal(t, MaxLineQuantity, cart.Items()[0].Quantity)

	cart.AdjustQuantity("nope", 3)
	require.Equal(t, 1, cart.Len())
}

func TestCartTotalIsExact(t *testing.T) {
	cart := NewCart()
	cart.AddOrIncrement(testProduct("111", "Soda", "10.50"), 2)
	cart.AddOrIncrement(testProduct("222", "Chips", "3.25"), 4)

	assert.True(t, cart.Total().Equal(decimal.RequireFromString("34.00")),
		"total = %s, want 34.00", cart.Total())
}

func TestCartRemove(t *testing.T) {
	cart := NewCart()
	cart.AddOrIncrement(testProduct("111", "Soda", "1.50"), 1)
	cart.AddOrIncrement(testProduct("222", "Chips", "3.25"), 1)

	cart.Remove("111")
	require.Equal(t, 1, cart.Len())
	assert.Equal(t, "222", cart.Items()[0].Barcode)

	cart.Remove("absent")
	assert.Equal(t, 1, cart.Len())
}

func TestCartClear(t *testing.T) {
	cart := NewCart()
	cart.AddOrIncrement(testProduct("111", "Soda", "1.50"), 1)

	cart.Clear()
	assert.Equal(t, 0, cart.Len())
	assert.True(t, cart.Total().IsZero())
}

func TestCartItemsReturnsCopy(t *testing.T) {
	cart := NewCart()
	cart.AddOrIncrement(testProduct("111", "Soda", "1.50"), 1)

	items := cart.Items()
	items[0].Quantity = 999

	assert.Equal(t, 1, cart.Items()[0].Quantity)
}
