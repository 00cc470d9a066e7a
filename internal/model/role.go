package model

type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

const (
	RoleManager = "MANAGER"
	RoleCashier = "CASHIER"
)

var DefaultRoles = []Role{
	{
		Code:        RoleManager,
		Name:        "Store Manager",
		Description: "Catalog, stock and reporting access",
	},
	{
		Code:        RoleCashier,
		Name:        "Cashier",
		Description: "Checkout only",
	},
}

// CashierPrivileges is the privilege set seeded for the CASHIER role.
// MANAGER receives every default privilege.
var CashierPrivileges = []string{PrivProductView, PrivSaleCreate, PrivSaleView}
