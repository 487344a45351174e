package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
store:
  connection: /var/lib/stash/stash.db
  name: items
logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/stash/stash.db", cfg.Store.Connection)
	assert.Equal(t, "items", cfg.Store.Name)
	assert.Empty(t, cfg.Store.Database)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_TOML(t *testing.T) {
	path := writeConfig(t, "config.toml", `
[store]
connection = "stash.db"
database = "archive.db"
name = "items"

[logging]
level = "warn"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "stash.db", cfg.Store.Connection)
	assert.Equal(t, "archive.db", cfg.Store.Database)
	assert.Equal(t, "items", cfg.Store.Name)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("STASH_TEST_DB", "/tmp/expanded.db")

	path := writeConfig(t, "config.yaml", `
store:
  connection: ${STASH_TEST_DB}
  name: items
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/expanded.db", cfg.Store.Connection)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "missing connection",
			cfg:     Config{Store: StoreConfig{Name: "items"}},
			wantErr: "store.connection is required",
		},
		{
			name:    "missing name",
			cfg:     Config{Store: StoreConfig{Connection: "stash.db"}},
			wantErr: "store.name is required",
		},
		{
			name: "valid",
			cfg:  Config{Store: StoreConfig{Connection: "stash.db", Name: "items"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
