package migration

import (
	authdomain "github.com/fahimshariar28/eidi/internal/auth/domain"
	"github.com/fahimshariar28/eidi/internal/config"
	invoicedomain "github.com/fahimshariar28/eidi/internal/invoice/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType != "postgres" {
			// sqlite and mysql dev setups rely on gorm's schema sync;
			// versioned SQL is maintained for postgres deployments.
			return conn.AutoMigrate(
				&authdomain.User{},
				&authdomain.Session{},
				&invoicedomain.Invoice{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
