package repository

import (
	"go-store-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll(search, category string) ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindByBarcode(barcode string) (*model.Product, error)
	Update(product *model.Product) error
	Delete(id uuid.UUID, deletedBy string) error
	DecrementStock(id uuid.UUID, quantity int) (int64, error)
	IncrementStock(tx *gorm.DB, id uuid.UUID, quantity int, updatedBy string) error
	CountAll() (int64, error)
	CountLowStock(threshold int) (int64, error)
	CountCategories() (int64, error)
	TotalValuation() (decimal.Decimal, error)
	CategoryCounts() ([]CategoryCount, error)
	StockLevels(limit int) ([]StockLevel, error)
}

// CategoryCount is one slice of the category distribution chart.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// StockLevel is one bar of the stock-level chart.
type StockLevel struct {
	Name          string `json:"name"`
	StockQuantity int    `json:"stock_quantity"`
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) FindAll(search, category string) ([]model.Product, error) {
	var products []model.Product
	q := r.db.Order("updated_at DESC")
	if search != "" {
		q = q.Where("name ILIKE ? OR barcode ILIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if category != "" {
		q = q.Where("category = ?", category)
	}
	err := q.Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindByBarcode(barcode string) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "barcode = ?", barcode).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Update(product *model.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepo) Delete(id uuid.UUID, deletedBy string) error {
	if err := r.db.Model(&model.Product{}).Where("id = ?", id).
		Update("deleted_by", deletedBy).Error; err != nil {
		return err
	}
	return r.db.Delete(&model.Product{}, "id = ?", id).Error
}

// DecrementStock performs a conditional single-statement debit: the row is
// only touched when enough stock remains, so the quantity can never go
// negative even under concurrent checkouts. Returns the number of rows
// affected (0 means the product is missing or short on stock).
func (r *productRepo) DecrementStock(id uuid.UUID, quantity int) (int64, error) {
	res := r.db.Model(&model.Product{}).
		Where("id = ? AND stock_quantity >= ?", id, quantity).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	return res.RowsAffected, res.Error
}

// IncrementStock accepts *gorm.DB (tx) so restocks run inside a transaction
func (r *productRepo) IncrementStock(tx *gorm.DB, id uuid.UUID, quantity int, updatedBy string) error {
	return tx.Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stock_quantity": gorm.Expr("stock_quantity + ?", quantity),
			"updated_by":     updatedBy,
		}).Error
}

func (r *productRepo) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Count(&count).Error
	return count, err
}

func (r *productRepo) CountLowStock(threshold int) (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Where("stock_quantity < ?", threshold).Count(&count).Error
	return count, err
}

func (r *productRepo) CountCategories() (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).
		Where("category <> ''").
		Distinct("category").
		Count(&count).Error
	return count, err
}

func (r *productRepo) TotalValuation() (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.Model(&model.Product{}).
		Select("COALESCE(SUM(price * stock_quantity), 0)").
		Row().Scan(&total)
	return total, err
}

func (r *productRepo) CategoryCounts() ([]CategoryCount, error) {
	var results []CategoryCount

	rows, err := r.db.Model(&model.Product{}).
		Select(`COALESCE(NULLIF(category, ''), 'uncategorized') as category, COUNT(*) as count`).
		Group("COALESCE(NULLIF(category, ''), 'uncategorized')").
		Order("count DESC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data CategoryCount
		if err := rows.Scan(&data.Category, &data.Count); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, nil
}

func (r *productRepo) StockLevels(limit int) ([]StockLevel, error) {
	var results []StockLevel
	err := r.db.Model(&model.Product{}).
		Select("name, stock_quantity").
		Order("updated_at DESC").
		Limit(limit).
		Scan(&results).Error
	return results, err
}
