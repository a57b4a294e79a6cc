package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DSN renders the go-sql-driver connection string for the catalog database.
// Credentials are URL encoded so passwords may contain '@' or ':'.
func DSN(cfg Config) string {
	secs := int(cfg.Timeout().Seconds())
	return fmt.Sprintf("%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=%ds&readTimeout=%ds&writeTimeout=%ds",
		url.UserPassword(cfg.User, cfg.Password).String(), cfg.Host, cfg.Port, cfg.Name, secs, secs, secs)
}

// Connect opens the catalog database and verifies it answers a ping.
// The catalog is optional; callers decide whether a failure is fatal.
func Connect(cfg Config) (*gorm.DB, error) {
	return open(mysql.Open(DSN(cfg)), cfg)
}

func open(dialector gorm.Dialector, cfg Config) (*gorm.DB, error) {
	// gorm's own logger stays silent; catalog failures surface through zap.
	// The ping below runs under the configured timeout instead of gorm's.
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:               logger.Default.LogMode(logger.Silent),
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to catalog database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	configurePool(sqlDB, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping catalog database: %w", err)
	}

	return db, nil
}

func configurePool(sqlDB *sql.DB, cfg Config) {
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime())
}
