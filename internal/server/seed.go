package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// SeedAdmin creates the bootstrap admin account when the admins table is
// empty. Idempotent: does nothing once any admin exists.
func SeedAdmin(ctx context.Context, logger *slog.Logger, store Store, email, password string) error {
	count, err := store.AdminCount(ctx)
	if err != nil {
		return fmt.Errorf("counting admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}

	if err := store.CreateAdmin(ctx, uuid.NewString(), email, string(hash)); err != nil {
		return fmt.Errorf("creating admin: %w", err)
	}

	logger.Info("bootstrap admin created", "email", email)
	return nil
}
