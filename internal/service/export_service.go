package service

import (
	"context"
	"fmt"

	"go-store-pos/internal/model"

	"github.com/xuri/excelize/v2"
)

// Sheet layout shared by the Google Sheets sync and the .xlsx download.
var (
	productHeaders     = []string{"ID", "Name", "Barcode", "Price", "Stock", "Category", "Updated At"}
	transactionHeaders = []string{"ID", "Date", "Total Amount", "Items Count"}
	expenseHeaders     = []string{"ID", "Date", "Category", "Amount", "Description"}
)

const exportTimeLayout = "2006-01-02 15:04:05"

// SheetPusher replaces one spreadsheet tab wholesale.
type SheetPusher interface {
	ReplaceSheet(ctx context.Context, sheet string, headers []string, rows [][]interface{}) error
}

// Narrow read-side views of the repositories the export walks.
type ProductSource interface {
	FindAll(search, category string) ([]model.Product, error)
}

type TransactionSource interface {
	FindAll() ([]model.Transaction, error)
}

type ExpenseSource interface {
	FindAll() ([]model.Expense, error)
}

// SyncStats reports how many rows each tab received.
type SyncStats struct {
	Products     int `json:"products"`
	Transactions int `json:"transactions"`
	Expenses     int `json:"expenses"`
}

type ExportService interface {
	SyncToSheets(ctx context.Context) (*SyncStats, error)
	BuildWorkbook() (*excelize.File, error)
}

type exportService struct {
	products     ProductSource
	transactions TransactionSource
	expenses     ExpenseSource
	pusher       SheetPusher
}

func NewExportService(products ProductSource, transactions TransactionSource, expenses ExpenseSource, pusher SheetPusher) ExportService {
	return &exportService{
		products:     products,
		transactions: transactions,
		expenses:     expenses,
		pusher:       pusher,
	}
}

// SyncToSheets pushes the current catalog, sales log and expense log into
// the configured spreadsheet, one tab each, replacing previous contents.
func (s *exportService) SyncToSheets(ctx context.Context) (*SyncStats, error) {
	if s.pusher == nil {
		return nil, fmt.Errorf("spreadsheet sync is not configured")
	}

	productRows, transactionRows, expenseRows, err := s.collectRows()
	if err != nil {
		return nil, err
	}

	if err := s.pusher.ReplaceSheet(ctx, "Products", productHeaders, productRows); err != nil {
		return nil, err
	}
	if err := s.pusher.ReplaceSheet(ctx, "Transactions", transactionHeaders, transactionRows); err != nil {
		return nil, err
	}
	if err := s.pusher.ReplaceSheet(ctx, "Expenses", expenseHeaders, expenseRows); err != nil {
		return nil, err
	}

	return &SyncStats{
		Products:     len(productRows),
		Transactions: len(transactionRows),
		Expenses:     len(expenseRows),
	}, nil
}

// BuildWorkbook renders the same three tabs into an in-memory .xlsx file.
func (s *exportService) BuildWorkbook() (*excelize.File, error) {
	productRows, transactionRows, expenseRows, err := s.collectRows()
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheets := []struct {
		name    string
		headers []string
		rows    [][]interface{}
	}{
		{"Products", productHeaders, productRows},
		{"Transactions", transactionHeaders, transactionRows},
		{"Expenses", expenseHeaders, expenseRows},
	}

	for i, sheet := range sheets {
		if i == 0 {
			f.SetSheetName(f.GetSheetName(0), sheet.name)
		} else {
			if _, err := f.NewSheet(sheet.name); err != nil {
				return nil, err
			}
		}

		headerRow := make([]interface{}, len(sheet.headers))
		for j, h := range sheet.headers {
			headerRow[j] = h
		}
		if err := f.SetSheetRow(sheet.name, "A1", &headerRow); err != nil {
			return nil, err
		}

		for j, row := range sheet.rows {
			cell, err := excelize.CoordinatesToCellName(1, j+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetSheetRow(sheet.name, cell, &row); err != nil {
				return nil, err
			}
		}
	}

	return f, nil
}

func (s *exportService) collectRows() (products, transactions, expenses [][]interface{}, err error) {
	productList, err := s.products.FindAll("", "")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("fetch products: %w", err)
	}
	transactionList, err := s.transactions.FindAll()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("fetch transactions: %w", err)
	}
	expenseList, err := s.expenses.FindAll()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("fetch expenses: %w", err)
	}

	return buildProductRows(productList), buildTransactionRows(transactionList), buildExpenseRows(expenseList), nil
}

func buildProductRows(products []model.Product) [][]interface{} {
	rows := make([][]interface{}, 0, len(products))
	for _, p := range products {
		rows = append(rows, []interface{}{
			p.ID.String(),
			p.Name,
			p.Barcode,
			p.Price.StringFixed(2),
			p.StockQuantity,
			p.Category,
			p.UpdatedAt.Format(exportTimeLayout),
		})
	}
	return rows
}

func buildTransactionRows(transactions []model.Transaction) [][]interface{} {
	rows := make([][]interface{}, 0, len(transactions))
	for _, t := range transactions {
		rows = append(rows, []interface{}{
			t.ID.String(),
			t.TransactionDate.Format(exportTimeLayout),
			t.TotalAmount.StringFixed(2),
			len(t.Items),
		})
	}
	return rows
}

func buildExpenseRows(expenses []model.Expense) [][]interface{} {
	rows := make([][]interface{}, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, []interface{}{
			e.ID.String(),
			e.ExpenseDate.Format("2006-01-02"),
			e.Category,
			e.Amount.StringFixed(2),
			e.Description,
		})
	}
	return rows
}
