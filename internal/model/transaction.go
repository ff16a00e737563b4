package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionItems is the ordered list of line-item snapshots frozen into a
// completed sale, stored as a JSONB column.
type TransactionItems []LineItem

func (items TransactionItems) Value() (driver.Value, error) {
	return json.Marshal(items)
}

func (items *TransactionItems) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, items)
	case string:
		return json.Unmarshal([]byte(v), items)
	default:
		return errors.New("unsupported type for transaction items")
	}
}

// Transaction is one completed sale. Rows are append-only: never updated or
// deleted, and decoupled from live Product state.
type Transaction struct {
	BaseModel
	TotalAmount     decimal.Decimal  `gorm:"type:numeric(14,2);not null" json:"total_amount"`
	Items           TransactionItems `gorm:"type:jsonb;not null" json:"items"`
	TransactionDate time.Time        `gorm:"not null;index" json:"transaction_date"`

	// User tracking
	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	CreatedByUser   *User   `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty"`
}
