package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-store-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProductSource struct{ products []model.Product }

func (s *fakeProductSource) FindAll(search, category string) ([]model.Product, error) {
	return s.products, nil
}

type fakeTransactionSource struct{ transactions []model.Transaction }

func (s *fakeTransactionSource) FindAll() ([]model.Transaction, error) {
	return s.transactions, nil
}

type fakeExpenseSource struct{ expenses []model.Expense }

func (s *fakeExpenseSource) FindAll() ([]model.Expense, error) {
	return s.expenses, nil
}

type fakeSheetPusher struct {
	calls map[string][][]interface{} // sheet name -> rows
	err   error
}

func (p *fakeSheetPusher) ReplaceSheet(ctx context.Context, sheet string, headers []string, rows [][]interface{}) error {
	if p.err != nil {
		return p.err
	}
	if p.calls == nil {
		p.calls = make(map[string][][]interface{})
	}
	p.calls[sheet] = rows
	return nil
}

func exportFixtures() (*fakeProductSource, *fakeTransactionSource, *fakeExpenseSource) {
	product := model.Product{
		Barcode:       "111",
		Name:          "Soda",
		Category:      "drinks",
		Price:         decimal.RequireFromString("1.50"),
		StockQuantity: 12,
	}
	product.ID = uuid.New()
	product.UpdatedAt = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

	sale := model.Transaction{
		TotalAmount:     decimal.RequireFromString("3.00"),
		TransactionDate: time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC),
		Items: model.TransactionItems{
			{Barcode: "111", Name: "Soda", UnitPrice: decimal.RequireFromString("1.50"), Quantity: 2},
		},
	}
	sale.ID = uuid.New()

	expense := model.Expense{
		ExpenseDate: time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.RequireFromString("20.00"),
		Category:    "inventory",
		Description: "Restock Soda x20",
	}
	expense.ID = uuid.New()

	return &fakeProductSource{products: []model.Product{product}},
		&fakeTransactionSource{transactions: []model.Transaction{sale}},
		&fakeExpenseSource{expenses: []model.Expense{expense}}
}

func TestSyncToSheetsPushesAllThreeTabs(t *testing.T) {
	products, transactions, expenses := exportFixtures()
	pusher := &fakeSheetPusher{}
	svc := NewExportService(products, transactions, expenses, pusher)

	stats, err := svc.SyncToSheets(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Products)
	assert.Equal(t, 1, stats.Transactions)
	assert.Equal(t, 1, stats.Expenses)

	require.Contains(t, pusher.calls, "Products")
	require.Contains(t, pusher.calls, "Transactions")
	require.Contains(t, pusher.calls, "Expenses")

	productRow := pusher.calls["Products"][0]
	assert.Equal(t, "Soda", productRow[1])
	assert.Equal(t, "111", productRow[2])
	assert.Equal(t, "1.50", productRow[3])
	assert.Equal(t, 12, productRow[4])

	txRow := pusher.calls["Transactions"][0]
	assert.Equal(t, "2025-03-14 10:00:00", txRow[1])
	assert.Equal(t, "3.00", txRow[2])
	assert.Equal(t, 1, txRow[3])

	expenseRow := pusher.calls["Expenses"][0]
	assert.Equal(t, "2025-03-13", expenseRow[1])
	assert.Equal(t, "inventory", expenseRow[2])
	assert.Equal(t, "20.00", expenseRow[3])
}

func TestSyncToSheetsWithoutPusher(t *testing.T) {
	products, transactions, expenses := exportFixtures()
	svc := NewExportService(products, transactions, expenses, nil)

	_, err := svc.SyncToSheets(context.Background())
	assert.Error(t, err)
}

func TestSyncToSheetsPropagatesPushFailure(t *testing.T) {
	products, transactions, expenses := exportFixtures()
	pusher := &fakeSheetPusher{err: errors.New("quota exceeded")}
	svc := NewExportService(products, transactions, expenses, pusher)

	_, err := svc.SyncToSheets(context.Background())
	assert.ErrorContains(t, err, "quota exceeded")
}

func TestBuildWorkbookHasAllSheets(t *testing.T) {
	products, transactions, expenses := exportFixtures()
	svc := NewExportService(products, transactions, expenses, nil)

	workbook, err := svc.BuildWorkbook()
	require.NoError(t, err)
	defer workbook.Close()

	assert.ElementsMatch(t, []string{"Products", "Transactions", "Expenses"}, workbook.GetSheetList())

	name, err := workbook.GetCellValue("Products", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Soda", name)

	header, err := workbook.GetCellValue("Expenses", "C1")
	require.NoError(t, err)
	assert.Equal(t, "Category", header)
}
