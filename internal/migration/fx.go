package migration

import (
	auditdomain "github.com/frontstep/dealanalyzer/internal/audit/domain"
	"github.com/frontstep/dealanalyzer/internal/config"
	orgdomain "github.com/frontstep/dealanalyzer/internal/organization/domain"
	userdomain "github.com/frontstep/dealanalyzer/internal/user/domain"
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
			return RunMigrations(sqlDB)
		}

		// Non-postgres dialects are dev/test setups; gorm's migrator is
		// enough there.
		return conn.AutoMigrate(
			&orgdomain.Organization{},
			&userdomain.User{},
			&auditdomain.WebhookDelivery{},
		)
	}),
)
