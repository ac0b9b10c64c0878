package db

import (
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsAreGooseFiles(t *testing.T) {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, "0001_init.sql", entries[0].Name())

	for _, entry := range entries {
		raw, err := migrationFiles.ReadFile("migrations/" + entry.Name())
		require.NoError(t, err)
		body := string(raw)
		assert.True(t, strings.HasPrefix(body, "-- +goose Up"), entry.Name())
		assert.Contains(t, body, "-- +goose Down", entry.Name())
	}
}

func TestAppliedNamesSkipsFailures(t *testing.T) {
	results := []*goose.MigrationResult{
		{Source: &goose.Source{Path: "0001_init.sql", Version: 1}},
		nil,
		{Source: &goose.Source{Path: "0002_reports.sql", Version: 2}, Error: errors.New("boom")},
		{Source: &goose.Source{Path: "0003_more.sql", Version: 3}},
	}

	assert.Equal(t, []string{"0001_init.sql", "0003_more.sql"}, appliedNames(results))
	assert.Empty(t, appliedNames(nil))
}
