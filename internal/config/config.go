package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrUnknownSyncBackend          = errors.New("unknown sync backend")
	ErrUnknownStorageDriver        = errors.New("unknown storage driver")
)

// Sync backends.
const (
	SyncNone     = "none"
	SyncMemory   = "memory"
	SyncPostgres = "postgres"
	SyncMongo    = "mongo"
)

// Storage drivers.
const (
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string      `mapstructure:"env"`      // current application environment (local, dev, production etc)
	Timezone         string      `mapstructure:"timezone"` // zone deciding what "today" is for streaks and plans
	Log              Log         `mapstructure:"log"`
	TelegramAPIToken string      `mapstructure:"-"` // Telegram API token loaded from environment
	Storage          Storage     `mapstructure:"storage"`
	Sync             Sync        `mapstructure:"sync"`
	DB               DB          `mapstructure:"database"`
	Mongo            Mongo       `mapstructure:"mongo"`
	Redis            Redis       `mapstructure:"redis"`
	Maintenance      Maintenance `mapstructure:"maintenance"`
}

// Log configures the process logger.
type Log struct {
	Level string `mapstructure:"level"` // debug, info, warn or error; empty keeps the env default
}

// Storage configures the on-device key-value store.
type Storage struct {
	Driver    string `mapstructure:"driver"`    // sqlite or memory
	Path      string `mapstructure:"path"`      // sqlite database file
	Namespace string `mapstructure:"namespace"` // key prefix, the bot appends the user id
}

// Sync configures the remote mirror.
type Sync struct {
	Backend  string        `mapstructure:"backend"` // none, memory, postgres or mongo
	Debounce time.Duration `mapstructure:"debounce"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

type Mongo struct {
	URI      string `mapstructure:"-"`
	Database string `mapstructure:"database"`
}

// Redis configures the leaderboard. An empty address disables the leaderboard.
type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"-"`
	DB       int    `mapstructure:"db"`
}

type Maintenance struct {
	Schedule string `mapstructure:"schedule"` // cron spec of the nightly cleanup
}

// Options customise Load.
type Options struct {
	ConfigPath string // directory searched for config.yaml
	EnvFile    string // optional dotenv file
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	return LoadWithOptions(Options{ConfigPath: "./config", EnvFile: ".env"})
}

// LoadWithOptions is Load with explicit file locations.
func LoadWithOptions(opts Options) (*Config, error) {
	// Values from the dotenv file never override the real environment.
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error loading env file: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if opts.ConfigPath != "" {
		v.AddConfigPath(opts.ConfigPath)
	}

	v.SetDefault("env", "local")
	v.SetDefault("timezone", "UTC")
	v.SetDefault("log.level", "")
	v.SetDefault("storage.driver", StorageSQLite)
	v.SetDefault("storage.path", "data/examprep.db")
	v.SetDefault("storage.namespace", "examprep:")
	v.SetDefault("sync.backend", SyncNone)
	v.SetDefault("sync.debounce", "500ms")
	v.SetDefault("sync.timeout", "10s")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("mongo.database", "examprep")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("maintenance.schedule", "0 3 * * *")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("mongo_uri", "MONGO_URI")
	_ = v.BindEnv("redis.addr", "REDIS_ADDR")
	_ = v.BindEnv("redis_password", "REDIS_PASSWORD")
	_ = v.BindEnv("env", "APP_ENV")

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	cfg.DB.URL = v.GetString("database_url")
	cfg.Mongo.URI = v.GetString("mongo_uri")
	cfg.Redis.Password = v.GetString("redis_password")

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.TelegramAPIToken == "" {
		return fmt.Errorf("%w: TELEGRAM_API_TOKEN", ErrMissingEnvironmentVariables)
	}

	c.Storage.Driver = strings.ToLower(c.Storage.Driver)
	switch c.Storage.Driver {
	case StorageSQLite, StorageMemory:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStorageDriver, c.Storage.Driver)
	}

	c.Sync.Backend = strings.ToLower(c.Sync.Backend)
	switch c.Sync.Backend {
	case SyncNone, SyncMemory:
	case SyncPostgres:
		if c.DB.URL == "" {
			return fmt.Errorf("%w: DATABASE_URL", ErrMissingEnvironmentVariables)
		}
	case SyncMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("%w: MONGO_URI", ErrMissingEnvironmentVariables)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSyncBackend, c.Sync.Backend)
	}

	return nil
}
