package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "minimarket"

type Configuration struct {
	ApiPort  string `mapstructure:"api_port"`
	LogLevel string `mapstructure:"log_level"`
	LogPath  string `mapstructure:"log_path"`

	Database string `mapstructure:"database"` // "sqlite3", "postgres" ou "mysql"
	DbHost   string `mapstructure:"db_host"`
	DbPort   string `mapstructure:"db_port"`
	DbUser   string `mapstructure:"db_user"`
	DbName   string `mapstructure:"db_name"`
	DbPass   string `mapstructure:"db_pass"`
	DbPath   string `mapstructure:"db_path"`
	SSLMode  string `mapstructure:"ssl_mode"`
	LogSQL   bool   `mapstructure:"log_sql"`

	// Statements selects the registry: "procedures" (PostgreSQL stored
	// procedures) or "portable" (plain SQL over the models tables).
	Statements  string `mapstructure:"statements"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`

	Descriptors Descriptors `mapstructure:"descriptors"`
	Redis       Redis       `mapstructure:"redis"`
	Pagination  Pagination  `mapstructure:"pagination"`

	Security struct {
		ApiToken string `mapstructure:"api_token"`
	} `mapstructure:"security"`

	CORS struct {
		AllowedOrigins []string `mapstructure:"allowed_origins"`
	} `mapstructure:"cors"`
}

type Descriptors struct {
	Source     string        `mapstructure:"source"` // "static" ou "database"
	Path       string        `mapstructure:"path"`
	Retries    int           `mapstructure:"retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
	CacheTTL   time.Duration `mapstructure:"cache_ttl"`
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type Pagination struct {
	DefaultLimit int `mapstructure:"default_limit"`
	MaxLimit     int `mapstructure:"max_limit"`
}

// Get reads the configuration file at path (optional) and overlays
// MINIMARKET_* environment variables.
func Get(path string) (Configuration, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Configuration{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var c Configuration
	if err := v.Unmarshal(&c); err != nil {
		return Configuration{}, fmt.Errorf("decoding config: %w", err)
	}
	normalize(&c)
	return c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_path", "")
	v.SetDefault("database", "sqlite3")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "")
	v.SetDefault("db_user", "")
	v.SetDefault("db_name", "minimarket")
	v.SetDefault("db_pass", "")
	v.SetDefault("db_path", "db/database.db")
	v.SetDefault("ssl_mode", "disable")
	v.SetDefault("log_sql", false)
	v.SetDefault("statements", "")
	v.SetDefault("auto_migrate", false)
	v.SetDefault("descriptors.source", "static")
	v.SetDefault("descriptors.path", "")
	v.SetDefault("descriptors.retries", 5)
	v.SetDefault("descriptors.retry_delay", 500*time.Millisecond)
	v.SetDefault("descriptors.cache_ttl", 5*time.Minute)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("pagination.default_limit", 10)
	v.SetDefault("pagination.max_limit", 1000)
	v.SetDefault("security.api_token", "")
	v.SetDefault("cors.allowed_origins", []string{"*"})
}

// defaults (pra evitar nil/zero chato)
func normalize(c *Configuration) {
	c.Database = strings.ToLower(strings.TrimSpace(c.Database))
	if c.Database == "postgresql" {
		c.Database = "postgres"
	}
	if c.Database == "" {
		c.Database = "sqlite3"
	}
	if c.DbPort == "" {
		switch c.Database {
		case "postgres":
			c.DbPort = "5432"
		case "mysql":
			c.DbPort = "3306"
		}
	}
	if c.Statements == "" {
		if c.Database == "postgres" {
			c.Statements = "procedures"
		} else {
			c.Statements = "portable"
		}
	}
	if c.Pagination.DefaultLimit <= 0 {
		c.Pagination.DefaultLimit = 10
	}
	if c.Pagination.MaxLimit < c.Pagination.DefaultLimit {
		c.Pagination.MaxLimit = c.Pagination.DefaultLimit
	}
	if c.Descriptors.Retries <= 0 {
		c.Descriptors.Retries = 1
	}
}
