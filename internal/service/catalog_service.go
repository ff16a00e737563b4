package service

import (
	"errors"
	"fmt"
	"time"

	"go-store-pos/internal/model"
	"go-store-pos/internal/repository"
	"go-store-pos/internal/ws"
	"go-store-pos/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrBarcodeExists   = errors.New("barcode already exists")
	ErrProductNotFound = errors.New("product not found")
	ErrStockOverflow   = errors.New("restock would exceed the maximum stock quantity")
)

// ScanResolution is the outcome of dispatching a decoded barcode: either the
// existing product, or a draft pre-filled with the barcode for the
// new-product-entry flow.
type ScanResolution struct {
	Found   bool           `json:"found"`
	Product *model.Product `json:"product,omitempty"`
	Draft   *ProductDraft  `json:"draft,omitempty"`
}

type ProductDraft struct {
	Barcode string `json:"barcode"`
}

type RestockRequest struct {
	Quantity int              `json:"quantity" validate:"required,gt=0,lte=100000"`
	UnitCost *decimal.Decimal `json:"unit_cost,omitempty" validate:"omitempty,dgte=0,dlte=1000000"`
}

type CatalogService interface {
	CreateProduct(caller Caller, req *model.Product) error
	UpdateProduct(caller Caller, id uuid.UUID, req *model.Product) (*model.Product, error)
	DeleteProduct(caller Caller, id uuid.UUID) error
	GetProduct(id uuid.UUID) (*model.Product, error)
	ListProducts(search, category string) ([]model.Product, error)
	Resolve(barcode string) (*ScanResolution, error)
	Restock(caller Caller, id uuid.UUID, req *RestockRequest) (*model.Product, error)
}

type catalogService struct {
	productRepo repository.ProductRepository
	db          *gorm.DB
	wsHub       *ws.Hub
}

func NewCatalogService(pRepo repository.ProductRepository, db *gorm.DB, hub *ws.Hub) CatalogService {
	return &catalogService{
		productRepo: pRepo,
		db:          db,
		wsHub:       hub,
	}
}

func (s *catalogService) CreateProduct(caller Caller, req *model.Product) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	// Barcode is the business key; reject duplicates before hitting the
	// store's unique index for a cleaner error.
	existing, _ := s.productRepo.FindByBarcode(req.Barcode)
	if existing != nil && existing.ID != uuid.Nil {
		return ErrBarcodeExists
	}

	req.CreatedBy = caller.ID
	req.UpdatedBy = caller.ID
	if caller.ID != "" {
		id := caller.ID
		req.CreatedByUserID = &id
		req.UpdatedByUserID = &id
	}

	if err := s.productRepo.Create(req); err != nil {
		return err
	}

	s.broadcast("product_created", caller, map[string]interface{}{
		"id":      req.ID,
		"barcode": req.Barcode,
		"name":    req.Name,
		"stock":   req.StockQuantity,
		"price":   req.Price,
	})

	return nil
}

func (s *catalogService) UpdateProduct(caller Caller, id uuid.UUID, req *model.Product) (*model.Product, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	var updated *model.Product

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing model.Product
		// Lock the row so a concurrent checkout cannot interleave with the
		// edit (pessimistic locking).
		if err := tx.Set("gorm:query_option", "FOR UPDATE").First(&existing, "id = ?", id).Error; err != nil {
			return ErrProductNotFound
		}

		oldStock := existing.StockQuantity

		existing.Barcode = req.Barcode
		existing.Name = req.Name
		existing.Description = req.Description
		existing.Category = req.Category
		existing.Price = req.Price
		existing.CostPrice = req.CostPrice
		existing.StockQuantity = req.StockQuantity
		existing.ImageURL = req.ImageURL
		existing.UpdatedBy = caller.ID
		if caller.ID != "" {
			cid := caller.ID
			existing.UpdatedByUserID = &cid
		}

		if err := tx.Save(&existing).Error; err != nil {
			return err
		}

		updated = &existing

		s.broadcast("product_updated", caller, map[string]interface{}{
			"id":        existing.ID,
			"barcode":   existing.Barcode,
			"name":      existing.Name,
			"old_stock": oldStock,
			"new_stock": existing.StockQuantity,
			"price":     existing.Price,
		})

		return nil
	})

	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *catalogService) DeleteProduct(caller Caller, id uuid.UUID) error {
	if _, err := s.productRepo.FindByID(id); err != nil {
		return ErrProductNotFound
	}
	if err := s.productRepo.Delete(id, caller.ID); err != nil {
		return err
	}

	s.broadcast("product_deleted", caller, map[string]interface{}{"id": id})
	return nil
}

func (s *catalogService) GetProduct(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *catalogService) ListProducts(search, category string) ([]model.Product, error) {
	return s.productRepo.FindAll(search, category)
}

// Resolve dispatches a decoded barcode: a known barcode resolves to its
// product, an unknown one to a pre-filled draft for the entry form.
func (s *catalogService) Resolve(barcode string) (*ScanResolution, error) {
	product, err := s.productRepo.FindByBarcode(barcode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ScanResolution{Found: false, Draft: &ProductDraft{Barcode: barcode}}, nil
		}
		return nil, err
	}
	return &ScanResolution{Found: true, Product: product}, nil
}

// Restock receives new units of a product. When the unit cost is known, the
// purchase is recorded as an expense and remembered as the product's cost
// price.
func (s *catalogService) Restock(caller Caller, id uuid.UUID, req *RestockRequest) (*model.Product, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	var restocked *model.Product

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var product model.Product
		if err := tx.Set("gorm:query_option", "FOR UPDATE").First(&product, "id = ?", id).Error; err != nil {
			return ErrProductNotFound
		}

		if product.StockQuantity+req.Quantity > model.MaxStockQuantity {
			return ErrStockOverflow
		}

		if err := s.productRepo.IncrementStock(tx, product.ID, req.Quantity, caller.ID); err != nil {
			return err
		}
		product.StockQuantity += req.Quantity

		if req.UnitCost != nil {
			product.CostPrice = req.UnitCost
			if err := tx.Model(&model.Product{}).Where("id = ?", product.ID).
				Update("cost_price", req.UnitCost).Error; err != nil {
				return err
			}

			expense := &model.Expense{
				ExpenseDate: time.Now(),
				Amount:      req.UnitCost.Mul(decimal.NewFromInt(int64(req.Quantity))),
				Category:    "inventory",
				Description: fmt.Sprintf("Restock %s x%d", product.Name, req.Quantity),
			}
			expense.CreatedBy = caller.ID
			expense.UpdatedBy = caller.ID
			if caller.ID != "" {
				cid := caller.ID
				expense.CreatedByUserID = &cid
			}
			if err := tx.Create(expense).Error; err != nil {
				return err
			}
		}

		restocked = &product

		s.broadcast("product_restocked", caller, map[string]interface{}{
			"id":        product.ID,
			"barcode":   product.Barcode,
			"name":      product.Name,
			"new_stock": product.StockQuantity,
			"quantity":  req.Quantity,
		})

		return nil
	})

	if err != nil {
		return nil, err
	}

	return restocked, nil
}

func (s *catalogService) broadcast(action string, caller Caller, product map[string]interface{}) {
	if s.wsHub == nil {
		return
	}
	go s.wsHub.BroadcastJSON(map[string]interface{}{
		"type":    "stock_update",
		"action":  action,
		"product": product,
		"user": map[string]interface{}{
			"id":    caller.ID,
			"name":  caller.Name,
			"email": caller.Email,
		},
	})
}
