package repository

import (
	"errors"

	"go-pos-checkout/internal/model"

	"gorm.io/gorm"
)

var ErrRoleNotFound = errors.New("role not found")

type RoleRepository interface {
	FindByCode(code string) (*model.Role, error)
	SeedDefaults() error
}

type roleRepo struct {
	db *gorm.DB
}

func NewRoleRepo(db *gorm.DB) RoleRepository {
	return &roleRepo{db: db}
}

func (r *roleRepo) FindByCode(code string) (*model.Role, error) {
	var role model.Role
	err := r.db.Preload("Privileges").Where("code = ?", code).First(&role).Error
	if err != nil {
		return nil, classify("find role", err, ErrRoleNotFound)
	}
	return &role, nil
}

// SeedDefaults creates the MANAGER and CASHIER roles with their privilege
// sets. Privileges must already be seeded. Existing roles are left untouched.
func (r *roleRepo) SeedDefaults() error {
	for _, def := range model.DefaultRoles {
		var existing model.Role
		err := r.db.Where("code = ?", def.Code).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return classify("seed roles", err, nil)
		}

		q := r.db.Model(&model.Privilege{})
		if def.Code != model.RoleManager {
			q = q.Where("code IN ?", model.CashierPrivileges)
		}
		var privileges []model.Privilege
		if err := q.Find(&privileges).Error; err != nil {
			return classify("seed roles", err, nil)
		}

		role := def
		role.Privileges = privileges
		if err := r.db.Create(&role).Error; err != nil {
			return classify("seed roles", err, nil)
		}
	}
	return nil
}
