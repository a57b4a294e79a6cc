package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"doc-composer/core/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 0.6, cfg.Compose.FuzzyThreshold)
	assert.True(t, cfg.Compose.Interactive)
	assert.Equal(t, "skip", cfg.Compose.OnReject)
	assert.False(t, cfg.Compose.FailOnUnresolved)
	assert.Equal(t, 4, cfg.Compose.Workers)
	assert.Equal(t, "output", cfg.Compose.OutputDir)

	assert.Equal(t, []string{"./library"}, cfg.Library.Directories())
	assert.Equal(t, ".docx", cfg.Library.Extension)
	assert.Equal(t, "prefer-first", cfg.Library.CollisionPolicy)
	assert.Equal(t, "library_documents", cfg.Library.CatalogTable)
	assert.Equal(t, 300, cfg.Library.CacheTTLSeconds)
	assert.True(t, cfg.Library.Watch)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "documents", cfg.Storage.Bucket)
	assert.Equal(t, 30, cfg.Database.TimeoutSeconds)
	assert.Equal(t, 4, cfg.Database.MaxOpenConns)
	assert.Equal(t, 30, cfg.Database.ConnMaxLifetimeMinutes)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("COMPOSE_FUZZY_THRESHOLD", "0.75")
	t.Setenv("COMPOSE_INTERACTIVE", "false")
	t.Setenv("COMPOSE_ON_REJECT", "abort")
	t.Setenv("LIBRARY_DIRS", "./custom, ./shared ,")
	t.Setenv("LIBRARY_USE_CATALOG", "true")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 0.75, cfg.Compose.FuzzyThreshold)
	assert.False(t, cfg.Compose.Interactive)
	assert.Equal(t, "abort", cfg.Compose.OnReject)
	assert.Equal(t, []string{"./custom", "./shared"}, cfg.Library.Directories())
	assert.True(t, cfg.Library.UseCatalog)

	opts := cfg.Compose.Options(cfg.Library.CollisionPolicy)
	assert.Equal(t, 0.75, opts.Threshold)
	assert.EqualValues(t, "abort", opts.OnReject)
	assert.Equal(t, "prefer-first", opts.CollisionPolicy)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	// Registered first so the cleanup restores what the .env file overloads.
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("SERVER_PORT", "")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_FORMAT=console\nSERVER_PORT=9090\n"), 0o644))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "9090", cfg.Server.Port)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		field string
	}{
		{"Threshold Above One", "COMPOSE_FUZZY_THRESHOLD", "1.5", "compose.fuzzy_threshold"},
		{"Negative Threshold", "COMPOSE_FUZZY_THRESHOLD", "-0.1", "compose.fuzzy_threshold"},
		{"Unknown Reject Policy", "COMPOSE_ON_REJECT", "retry", "compose.on_reject"},
		{"No Workers", "COMPOSE_WORKERS", "0", "compose.workers"},
		{"Unknown Collision Policy", "LIBRARY_COLLISION_POLICY", "last", "library.collision_policy"},
		{"Unknown Log Level", "LOG_LEVEL", "verbose", "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := LoadConfig(t.TempDir())
			var verr *validation.Error
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
}
