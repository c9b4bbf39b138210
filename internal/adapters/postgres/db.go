package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	pingTimeout     = 5 * time.Second
	connMaxIdleTime = 15 * time.Minute
	connMaxLifetime = time.Hour
)

//go:embed migrations/*.sql
var schemaFS embed.FS

// Open dials Postgres through gorm and verifies the pool answers before the
// engine takes any traffic. TranslateError turns driver unique-violation and
// not-found errors into gorm sentinels the repositories key off.
func Open(ctx context.Context, databaseURL string, maxConns int32) (*gorm.DB, error) {
	gormDB, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		TranslateError: true,
		PrepareStmt:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	pool, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("gorm sql db: %w", err)
	}
	tunePool(pool, maxConns)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.PingContext(pingCtx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	slog.Default().InfoContext(ctx, "postgres pool ready",
		"layer", "postgres",
		"max_conns", maxConns,
	)
	return gormDB, nil
}

func tunePool(pool *sql.DB, maxConns int32) {
	if maxConns > 0 {
		pool.SetMaxOpenConns(int(maxConns))
		idle := int(maxConns) / 2
		if idle < 2 {
			idle = 2
		}
		pool.SetMaxIdleConns(idle)
	}
	pool.SetConnMaxIdleTime(connMaxIdleTime)
	pool.SetConnMaxLifetime(connMaxLifetime)
}

// Migrate replays the embedded schema files in name order. Files are written
// to be re-runnable (IF NOT EXISTS throughout), so there is no version table.
func Migrate(ctx context.Context, db *gorm.DB) error {
	files, err := fs.Glob(schemaFS, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("list schema files: %w", err)
	}
	for _, file := range files {
		raw, err := schemaFS.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read %s: %w", path.Base(file), err)
		}
		if err := db.WithContext(ctx).Exec(string(raw)).Error; err != nil {
			return fmt.Errorf("apply %s: %w", path.Base(file), err)
		}
		slog.Default().InfoContext(ctx, "schema file applied",
			"layer", "postgres",
			"file", path.Base(file),
		)
	}
	return nil
}
