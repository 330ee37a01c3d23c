package migration

import (
	authdomain "github.com/techdrop/catalog/internal/auth/domain"
	"github.com/techdrop/catalog/internal/config"
	productdomain "github.com/techdrop/catalog/internal/product/domain"
	"github.com/techdrop/catalog/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// SQLite and MySQL deployments skip the versioned SQL path.
			if err := conn.AutoMigrate(&productdomain.Product{}, &authdomain.Administrator{}); err != nil {
				return err
			}
		}

		return seed.EnsureAdmin(conn, cfg)
	}),
)
