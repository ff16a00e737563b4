package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a dated cost entry. Created directly through the API or as a
// side effect of restocking a product at a known unit cost.
type Expense struct {
	BaseModel
	ExpenseDate time.Time       `gorm:"type:date;not null;index" json:"expense_date"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount" validate:"dgte=0,dlte=1000000"`
	Category    string          `gorm:"type:varchar(100)" json:"category" validate:"max=100"`
	Description string          `gorm:"type:varchar(1000)" json:"description" validate:"max=1000"`

	// User tracking
	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	CreatedByUser   *User   `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty"`
}
