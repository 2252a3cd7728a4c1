package migrations

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiles(t *testing.T) {
	files, err := Files()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"00001_create_products.sql",
		"00002_create_question_variations.sql",
		"00003_create_demographic_rules.sql",
	}, files)
}

func TestMigrations_HaveUpAndDown(t *testing.T) {
	files, err := Files()
	require.NoError(t, err)

	for _, name := range files {
		data, err := fs.ReadFile(migrationFiles, dir+"/"+name)
		require.NoError(t, err)
		body := string(data)
		assert.True(t, strings.HasPrefix(body, "-- +goose Up"), name)
		assert.Contains(t, body, "-- +goose Down", name)
	}
}

func TestUp_NilDatabase(t *testing.T) {
	assert.NoError(t, Up(context.Background(), nil))
}
