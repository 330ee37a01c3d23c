package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/techdrop/catalog/internal/auth/domain"
	"github.com/techdrop/catalog/internal/auth/password"
	"github.com/techdrop/catalog/internal/config"
	"gorm.io/gorm"
)

// EnsureAdmin seeds the single administrator account on startup. The account
// comes from ADMIN_EMAIL and ADMIN_PASSWORD; when either is unset the seed is
// skipped and login stays impossible until both are configured.
func EnsureAdmin(db *gorm.DB, cfg config.Config) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if email == "" || cfg.AdminPassword == "" {
		return nil
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var admin authdomain.Administrator
		err := tx.WithContext(ctx).
			Where("email = ?", email).
			First(&admin).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := password.Hash(cfg.AdminPassword)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		admin = authdomain.Administrator{
			ID:           node.Generate(),
			Email:        email,
			PasswordHash: hashed,
			Role:         authdomain.RoleAdmin,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return tx.WithContext(ctx).Create(&admin).Error
	})
}
