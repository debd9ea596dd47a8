package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/noah-isme/tutoring-schedule-api/pkg/config"
)

// DSN renders the lib/pq connection string. The session timezone is pinned so
// DATE columns are read back as the calendar days the school stores.
func DSN(cfg config.DatabaseConfig, appName, timezone string) string {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)
	if appName != "" {
		dsn += fmt.Sprintf(" application_name=%s", appName)
	}
	if timezone != "" {
		dsn += fmt.Sprintf(" timezone=%s", timezone)
	}
	return dsn
}

// NewPostgres returns a configured PostgreSQL client.
func NewPostgres(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", DSN(cfg.Database, cfg.ServiceName, cfg.Scheduling.Timezone))
	if err != nil {
		return nil, err
	}

	if cfg.Database.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	}
	if cfg.Database.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	}

	db.SetConnMaxLifetime(1 * time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
