package main

import (
	"errors"
	"log/slog"
	"os"

	"go-pos-checkout/internal/model"
	"go-pos-checkout/internal/repository"
)

const (
	defaultAdminEmail    = "admin@example.com"
	defaultAdminPassword = "admin123"
)

// seed creates default privileges, roles and a manager account if missing.
func seed(privileges repository.PrivilegeRepository, roles repository.RoleRepository, users repository.UserRepository, log *slog.Logger) error {
	if err := privileges.SeedDefaults(); err != nil {
		return err
	}
	if err := roles.SeedDefaults(); err != nil {
		return err
	}

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = defaultAdminEmail
	}

	_, err := users.FindByEmail(email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return err
	}

	manager, err := roles.FindByCode(model.RoleManager)
	if err != nil {
		return err
	}

	admin := &model.User{
		Email:      email,
		FullName:   "Store Manager",
		RoleID:     &manager.ID,
		IsActive:   true,
		Privileges: manager.Privileges,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = defaultAdminPassword
	}
	if err := admin.SetPassword(password); err != nil {
		return err
	}
	if err := users.Create(admin); err != nil {
		return err
	}

	log.Info("manager account created", "email", email)
	return nil
}
