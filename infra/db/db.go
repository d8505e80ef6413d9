package db

import (
	"fmt"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres" //postgres
	"github.com/labstack/gommon/log"
	"github.com/radhian/payment-statistics/config"
	"github.com/radhian/payment-statistics/infra/db/dao"
)

// Open connects to postgres and migrates the service tables.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	conn, err := gorm.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("cannot connect to database %s: %w", cfg.Name, err)
	}
	log.Infof("[DB] Connected to database %s on %s:%s", cfg.Name, cfg.Host, cfg.Port)

	if err := dao.Migrate(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database migration failed: %w", err)
	}
	return conn, nil
}
