package model

import "github.com/shopspring/decimal"

// MaxStockQuantity is the upper bound a single product's stock may reach.
const MaxStockQuantity = 100000

// Product is one catalog entry, keyed by its barcode.
type Product struct {
	BaseModel
	Barcode       string           `gorm:"type:varchar(50);uniqueIndex;not null" json:"barcode" validate:"required,max=50,barcode"`
	Name          string           `gorm:"type:varchar(200);not null" json:"name" validate:"required,max=200"`
	Description   string           `gorm:"type:varchar(1000)" json:"description,omitempty" validate:"max=1000"`
	Category      string           `gorm:"type:varchar(100);index" json:"category,omitempty" validate:"max=100"`
	Price         decimal.Decimal  `gorm:"type:numeric(12,2);not null;default:0" json:"price" validate:"dgte=0,dlte=1000000"`
	CostPrice     *decimal.Decimal `gorm:"type:numeric(12,2)" json:"cost_price,omitempty" validate:"omitempty,dgte=0,dlte=1000000"`
	StockQuantity int              `gorm:"not null;default:0" json:"stock_quantity" validate:"gte=0,lte=100000"`
	ImageURL      string           `gorm:"type:varchar(500)" json:"image_url,omitempty" validate:"omitempty,url,max=500"`

	// User tracking
	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	UpdatedByUserID *string `gorm:"type:varchar(255)" json:"updated_by_user_id,omitempty"`
	CreatedByUser   *User   `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty"`
	UpdatedByUser   *User   `gorm:"foreignKey:UpdatedByUserID;references:ID" json:"updated_by_user,omitempty"`
}
