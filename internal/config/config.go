package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"memoapi/internal/model"
)

// Storage backends selectable through STORAGE_BACKEND.
const (
	BackendLocal    = "local"
	BackendMinIO    = "minio"
	BackendPostgres = "postgres"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level       string
	Development bool
}

// NotesConfig holds the notes folder and memo display settings.
type NotesConfig struct {
	Folder       string
	DateFormat   string
	DisplayCount int
	DefaultSort  model.SortKey
}

// StorageConfig selects the backing medium of the notes folder.
type StorageConfig struct {
	Backend string
	// Root is the local directory used by the local backend.
	Root string
}

// TelegramConfig enables the capture bot when Token is set.
type TelegramConfig struct {
	Token string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables and an optional config file.
// Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost  string
	Port     string
	Log      LogConfig
	Notes    NotesConfig
	Storage  StorageConfig
	Database DatabaseConfig
	MinIO    MinIOConfig
	Telegram TelegramConfig
}

// Load reads configuration from environment variables and, when CONFIG_FILE is set,
// from that file (YAML, TOML or JSON). Environment variables take precedence.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
func Load() (*AppConfig, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*AppConfig, error) {
	setDefaults(v)

	// Nested keys map to env vars: notes.folder -> NOTES_FOLDER.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := v.GetString("config_file"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %q: %w", path, err)
		}
	}

	sortKey, ok := model.ParseSortKey(v.GetString("notes.default_sort"))
	if !ok {
		return nil, fmt.Errorf("invalid NOTES_DEFAULT_SORT %q", v.GetString("notes.default_sort"))
	}

	cfg := &AppConfig{
		AppHost: v.GetString("app.host"),
		Port:    v.GetString("port"),
		Log: LogConfig{
			Level:       v.GetString("log.level"),
			Development: v.GetBool("log.development"),
		},
		Notes: NotesConfig{
			Folder:       strings.Trim(v.GetString("notes.folder"), "/"),
			DateFormat:   v.GetString("notes.date_format"),
			DisplayCount: v.GetInt("notes.display_count"),
			DefaultSort:  sortKey,
		},
		Storage: StorageConfig{
			Backend: strings.ToLower(v.GetString("storage.backend")),
			Root:    v.GetString("storage.root"),
		},
		Database: DatabaseConfig{
			Host:               v.GetString("db.host"),
			Port:               v.GetString("db.port"),
			User:               v.GetString("db.user"),
			Password:           v.GetString("db.password"),
			Name:               v.GetString("db.name"),
			SSLMode:            v.GetString("db.sslmode"),
			MaxOpenConns:       v.GetInt("db.max_open_conns"),
			MaxIdleConns:       v.GetInt("db.max_idle_conns"),
			ConnMaxLifetimeSec: v.GetInt("db.conn_max_lifetime_sec"),
		},
		MinIO: MinIOConfig{
			Endpoint:  v.GetString("minio.endpoint"),
			AccessKey: v.GetString("minio.access_key"),
			SecretKey: v.GetString("minio.secret_key"),
			Bucket:    v.GetString("minio.bucket"),
			UseSSL:    v.GetBool("minio.use_ssl"),
		},
		Telegram: TelegramConfig{
			Token: v.GetString("telegram.token"),
		},
	}

	switch cfg.Storage.Backend {
	case BackendLocal, BackendMinIO, BackendPostgres:
	default:
		return nil, fmt.Errorf("invalid STORAGE_BACKEND %q", cfg.Storage.Backend)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("config_file", "")
	v.SetDefault("app.host", "localhost:8080")
	v.SetDefault("port", "8080") // default only for non-sensitive value
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	v.SetDefault("notes.folder", "memos")
	v.SetDefault("notes.date_format", "YYYY-MM-DD HH:mm:ss")
	v.SetDefault("notes.display_count", 50)
	v.SetDefault("notes.default_sort", string(model.SortByCreated))

	v.SetDefault("storage.backend", BackendLocal)
	v.SetDefault("storage.root", "./data")

	v.SetDefault("db.host", "")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime_sec", 300)

	v.SetDefault("minio.endpoint", "")
	v.SetDefault("minio.access_key", "")
	v.SetDefault("minio.secret_key", "")
	v.SetDefault("minio.bucket", "")
	v.SetDefault("minio.use_ssl", false)

	v.SetDefault("telegram.token", "")
}
