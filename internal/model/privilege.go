package model

// Privilege is a permission code carried in the cashier's token.
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g. "sale:create"
	Name string `gorm:"type:varchar(100)" json:"name"`
}

const (
	PrivProductView   = "product:view"
	PrivProductCreate = "product:create"
	PrivProductUpdate = "product:update"
	PrivStockAdjust   = "stock:adjust"
	PrivSaleCreate    = "sale:create"
	PrivSaleView      = "sale:view"
	PrivDashboardView = "dashboard:view"
)

var DefaultPrivileges = []Privilege{
	{Code: PrivProductView, Name: "View Product"},
	{Code: PrivProductCreate, Name: "Create Product"},
	{Code: PrivProductUpdate, Name: "Update Product"},
	{Code: PrivStockAdjust, Name: "Adjust Stock"},
	{Code: PrivSaleCreate, Name: "Process Sale"},
	{Code: PrivSaleView, Name: "View Sale"},
	{Code: PrivDashboardView, Name: "View Dashboard"},
}
