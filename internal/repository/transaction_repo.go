package repository

import (
	"time"

	"go-store-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionRepository interface {
	Create(tx *model.Transaction) error
	FindAll() ([]model.Transaction, error)
	FindByID(id uuid.UUID) (*model.Transaction, error)
	RevenueByDay(startDate, endDate time.Time) ([]DailyRevenue, error)
}

// DailyRevenue is the summed sale total for one calendar day.
type DailyRevenue struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) Create(tx *model.Transaction) error {
	return r.db.Create(tx).Error
}

func (r *transactionRepo) FindAll() ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.Preload("CreatedByUser").Order("transaction_date DESC").Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) FindByID(id uuid.UUID) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.Preload("CreatedByUser").First(&transaction, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *transactionRepo) RevenueByDay(startDate, endDate time.Time) ([]DailyRevenue, error) {
	var results []DailyRevenue

	// to_char keeps the day as a plain YYYY-MM-DD string; a bare DATE()
	// column comes back from the driver as time.Time and would not scan
	// into the string key callers group by.
	rows, err := r.db.Model(&model.Transaction{}).
		Select(`to_char(transaction_date, 'YYYY-MM-DD') as date, COALESCE(SUM(total_amount), 0) as revenue`).
		Where("transaction_date BETWEEN ? AND ?", startDate, endDate).
		Group("to_char(transaction_date, 'YYYY-MM-DD')").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data DailyRevenue
		if err := rows.Scan(&data.Date, &data.Revenue); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, nil
}
