// Package config loads runtime settings from an optional YAML file, an
// optional .env file and SENDMONEY_* environment variables, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvPrefix  = "SENDMONEY"
	ConfigName = "sendmoney"

	StoreDriverFile  = "file"
	StoreDriverRedis = "redis"
)

// Config holds every setting the program reads.
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog"`
	Store   StoreConfig   `mapstructure:"store"`
	Locale  string        `mapstructure:"locale"`
	Log     LogConfig     `mapstructure:"log"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// CatalogConfig selects the catalog document. An empty path uses the
// embedded catalog.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// StoreConfig selects where the transaction log lives.
type StoreConfig struct {
	Driver string      `mapstructure:"driver"`
	Path   string      `mapstructure:"path"`
	Key    string      `mapstructure:"key"`
	Redis  RedisConfig `mapstructure:"redis"`
}

// RedisConfig configures the redis driver.
type RedisConfig struct {
	Addr   string `mapstructure:"addr"`
	DB     int    `mapstructure:"db"`
	Prefix string `mapstructure:"prefix"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// AuthConfig holds the single sign-in account. PasswordHash, when set, is a
// bcrypt hash and takes precedence over Password.
type AuthConfig struct {
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	PasswordHash string `mapstructure:"password_hash"`
}

// MetricsConfig names the Prometheus textfile written on exit. Empty
// disables it.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// Option configures Load.
type Option func(*loadConfig)

type loadConfig struct {
	file      string
	envFile   string
	searchDir []string
}

// WithFile reads settings from path. A missing explicit file is an error.
func WithFile(path string) Option {
	return func(cfg *loadConfig) {
		cfg.file = strings.TrimSpace(path)
	}
}

// WithEnvFile loads variables from a dotenv file before reading the
// environment. A missing file is ignored.
func WithEnvFile(path string) Option {
	return func(cfg *loadConfig) {
		cfg.envFile = strings.TrimSpace(path)
	}
}

// WithSearchPaths sets the directories searched for sendmoney.yaml.
func WithSearchPaths(dirs ...string) Option {
	return func(cfg *loadConfig) {
		cfg.searchDir = append([]string(nil), dirs...)
	}
}

// Load resolves the configuration.
func Load(options ...Option) (Config, error) {
	lc := loadConfig{envFile: ".env", searchDir: []string{"."}}
	for _, opt := range options {
		if opt != nil {
			opt(&lc)
		}
	}

	if lc.envFile != "" {
		if err := godotenv.Load(lc.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load env file %s: %w", lc.envFile, err)
		}
	}

	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if lc.file != "" {
		v.SetConfigFile(lc.file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", lc.file, err)
		}
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		for _, dir := range lc.searchDir {
			v.AddConfigPath(dir)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("config: read: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SetDefaults registers every key with its default. AutomaticEnv only sees
// keys viper already knows about.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("catalog.path", "")
	v.SetDefault("store.driver", StoreDriverFile)
	v.SetDefault("store.path", defaultStorePath())
	v.SetDefault("store.key", "requests")
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.redis.prefix", "sendmoney:")
	v.SetDefault("locale", "en")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("auth.username", "testuser")
	v.SetDefault("auth.password", "password123")
	v.SetDefault("auth.password_hash", "")
	v.SetDefault("metrics.textfile", "")
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case StoreDriverFile:
		if strings.TrimSpace(c.Store.Path) == "" {
			return errors.New("config: store.path is required for the file driver")
		}
	case StoreDriverRedis:
		if strings.TrimSpace(c.Store.Redis.Addr) == "" {
			return errors.New("config: store.redis.addr is required for the redis driver")
		}
	default:
		return fmt.Errorf("config: unknown store driver %q", c.Store.Driver)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.Log.Format)
	}
	if strings.TrimSpace(c.Store.Key) == "" {
		return errors.New("config: store.key is required")
	}
	return nil
}

func defaultStorePath() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return dir + string(os.PathSeparator) + "sendmoney"
	}
	return ".sendmoney"
}
