package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memoapi/internal/model"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "memos", cfg.Notes.Folder)
	assert.Equal(t, "YYYY-MM-DD HH:mm:ss", cfg.Notes.DateFormat)
	assert.Equal(t, 50, cfg.Notes.DisplayCount)
	assert.Equal(t, model.SortByCreated, cfg.Notes.DefaultSort)
	assert.Equal(t, BackendLocal, cfg.Storage.Backend)
	assert.Equal(t, "./data", cfg.Storage.Root)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Empty(t, cfg.Telegram.Token)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("NOTES_FOLDER", "/inbox/")
	t.Setenv("NOTES_DISPLAY_COUNT", "7")
	t.Setenv("NOTES_DEFAULT_SORT", "updateTime")
	t.Setenv("STORAGE_BACKEND", "Postgres")
	t.Setenv("TELEGRAM_TOKEN", "token")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, "inbox", cfg.Notes.Folder)
	assert.Equal(t, 7, cfg.Notes.DisplayCount)
	assert.Equal(t, model.SortByUpdated, cfg.Notes.DefaultSort)
	assert.Equal(t, BackendPostgres, cfg.Storage.Backend)
	assert.Equal(t, "token", cfg.Telegram.Token)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := []byte("notes:\n  folder: journal\n  display_count: 3\nport: \"9090\"\n")
	require.NoError(t, os.WriteFile(path, body, 0o644))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7070")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "journal", cfg.Notes.Folder)
	assert.Equal(t, 3, cfg.Notes.DisplayCount)
	// Environment wins over the file.
	assert.Equal(t, "7070", cfg.Port)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "unknown sort key", key: "NOTES_DEFAULT_SORT", val: "title"},
		{name: "unknown backend", key: "STORAGE_BACKEND", val: "ftp"},
		{name: "missing config file", key: "CONFIG_FILE", val: "/nonexistent/config.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
