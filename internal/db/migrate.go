package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrate applies every embedded goose migration that the database has not
// seen yet and returns the applied file names in order.
func Migrate(ctx context.Context, db *gorm.DB) ([]string, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db handle: %w", err)
	}

	fsys, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		return nil, err
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, fsys)
	if err != nil {
		return nil, fmt.Errorf("migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return appliedNames(results), fmt.Errorf("apply migrations: %w", err)
	}
	return appliedNames(results), nil
}

func appliedNames(results []*goose.MigrationResult) []string {
	names := make([]string, 0, len(results))
	for _, result := range results {
		if result == nil || result.Source == nil || result.Error != nil {
			continue
		}
		names = append(names, path.Base(result.Source.Path))
	}
	return names
}
