package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "product:create"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Create Product"
}

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// Product management
	{Code: "product:view", Name: "View Product"},
	{Code: "product:create", Name: "Create Product"},
	{Code: "product:update", Name: "Update Product"},
	{Code: "product:delete", Name: "Delete Product"},
	// Sales
	{Code: "checkout:create", Name: "Run Checkout"},
	{Code: "transaction:view", Name: "View Transaction"},
	// Expenses
	{Code: "expense:view", Name: "View Expense"},
	{Code: "expense:create", Name: "Create Expense"},
	// Analytics
	{Code: "analytics:view", Name: "View Analytics"},
	// User management (admin only)
	{Code: "user:view", Name: "View User"},
	{Code: "user:create", Name: "Create User"},
	{Code: "user:update", Name: "Update User"},
	{Code: "user:delete", Name: "Delete User"},
	{Code: "user:update_privilege", Name: "Update User Privileges"},
	// Export
	{Code: "export:run", Name: "Run Spreadsheet Export"},
}

// StaffPrivilegeCodes are the privileges granted to the STAFF role at seed time.
var StaffPrivilegeCodes = []string{
	"product:view", "product:create", "product:update",
	"checkout:create", "transaction:view",
	"expense:view", "expense:create",
	"analytics:view",
}

// ViewerPrivilegeCodes are the privileges granted to the VIEWER role at seed time.
var ViewerPrivilegeCodes = []string{
	"product:view", "transaction:view", "expense:view", "analytics:view",
}
