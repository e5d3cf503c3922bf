package database

import (
	"fmt"

	"whatsapp-notify/internal/config"
	"whatsapp-notify/internal/models"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var GormDB *gorm.DB

// InitGorm connects to the configured database and runs migrations.
// Postgres in production, sqlite for local development.
func InitGorm(cfg *config.Config) error {
	db, err := Open(cfg)
	if err != nil {
		return err
	}

	GormDB = db
	logrus.WithField("driver", cfg.DBDriver).Info("Connected to database")

	if err := Migrate(GormDB); err != nil {
		return err
	}

	logrus.Info("Database migration completed")
	return nil
}

func Open(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	switch cfg.DBDriver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode)
		db, err := gorm.Open(postgres.Open(dsn), gormCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "failed to connect to postgres")
		}
		return db, nil

	case "sqlite":
		db, err := gorm.Open(sqlite.Open(cfg.DBPath), gormCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "failed to open sqlite database")
		}
		return db, nil

	default:
		return nil, pkgerrors.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.TemplateApproval{},
		&models.DeliveryLog{},
	)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to run auto-migration")
	}
	return nil
}
