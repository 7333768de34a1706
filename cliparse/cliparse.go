package cliparse

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/danielhkuo/crossword/db"
)

const (
	DefaultHost               = "127.0.0.1"
	DefaultPort               = 8000
	DefaultDatabaseURL        = "sqlite://crossword.db"
	DefaultCrosshareURL       = "https://crosshare.org"
	DefaultMinClues           = 20
	DefaultMaxClues           = 25
	DefaultMaxPages           = 9
	DefaultCrosshareTimeout   = 30 * time.Second
	DefaultCrosshareCacheSize = 256
	DefaultEnvFile            = ".env.local"
	DefaultCORSOrigins        = "http://localhost:5173,http://localhost:3000"
)

type Config struct {
	Host              string
	Port              int
	DatabaseURL       string
	DatabaseType      string
	CORSOrigins       []string
	CrosshareURL      string
	MinClues          int
	MaxClues          int
	CrosshareMaxPages int
	CrosshareTimeout  time.Duration
	// CrosshareCacheSize is how many fetched puzzles the client keeps in memory
	CrosshareCacheSize int
	LogLevel           string
	LogFormat          string

	// Files the values were read from, watched by serve --reload
	EnvFile    string
	ConfigFile string
}

// Addr is the listen address
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Dialect returns the parsed DATABASE_TYPE
func (c Config) Dialect() db.Dialect {
	d, _ := db.ParseDialect(c.DatabaseType)
	return d
}

// flag name -> config key
var flagKeys = map[string]string{
	"host":                 "host",
	"port":                 "port",
	"database-url":         "database_url",
	"database-type":        "database_type",
	"cors-origins":         "cors_origins",
	"crosshare-url":        "crosshare_url",
	"min-clues":            "min_clues",
	"max-clues":            "max_clues",
	"crosshare-max-pages":  "crosshare_max_pages",
	"crosshare-timeout":    "crosshare_timeout",
	"crosshare-cache-size": "crosshare_cache_size",
	"log-level":            "log_level",
	"log-format":           "log_format",
}

// BindFlags registers the configuration flags
func BindFlags(flags *pflag.FlagSet) {
	flags.String("host", DefaultHost, "Listen host")
	flags.IntP("port", "p", DefaultPort, "Server port")
	flags.StringP("database-url", "d", DefaultDatabaseURL, "Database URL")
	flags.StringP("database-type", "t", "", "Database type (sqlite or postgres); inferred from the URL when empty")
	flags.String("cors-origins", DefaultCORSOrigins, "Comma-separated allowed CORS origins")
	flags.String("crosshare-url", DefaultCrosshareURL, "Crosshare base URL")
	flags.Int("min-clues", DefaultMinClues, "Accept puzzles with more clues than this")
	flags.Int("max-clues", DefaultMaxClues, "Accept puzzles with fewer clues than this")
	flags.Int("crosshare-max-pages", DefaultMaxPages, "Featured pages to scan for new puzzles")
	flags.Duration("crosshare-timeout", DefaultCrosshareTimeout, "Timeout for each Crosshare request")
	flags.Int("crosshare-cache-size", DefaultCrosshareCacheSize, "Fetched Crosshare puzzles kept in memory")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("log-format", "text", "Log format (text or json)")
	flags.String("env-file", DefaultEnvFile, "Env file loaded below real environment variables")
	flags.String("config", "", "YAML config file (default: ./crossword.yaml if present)")
}

// ParseFlags parses args against a fresh flag set and loads the configuration
func ParseFlags(args []string) (Config, error) {
	flags := pflag.NewFlagSet("crossword", pflag.ContinueOnError)
	BindFlags(flags)
	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}
	return Load(flags)
}

// Load resolves the configuration.
// Precedence: flags > environment > env file > config file > defaults.
func Load(flags *pflag.FlagSet) (Config, error) {
	v := viper.New()

	v.SetDefault("host", DefaultHost)
	v.SetDefault("port", DefaultPort)
	v.SetDefault("database_url", DefaultDatabaseURL)
	v.SetDefault("database_type", "")
	v.SetDefault("cors_origins", DefaultCORSOrigins)
	v.SetDefault("crosshare_url", DefaultCrosshareURL)
	v.SetDefault("min_clues", DefaultMinClues)
	v.SetDefault("max_clues", DefaultMaxClues)
	v.SetDefault("crosshare_max_pages", DefaultMaxPages)
	v.SetDefault("crosshare_timeout", DefaultCrosshareTimeout)
	v.SetDefault("crosshare_cache_size", DefaultCrosshareCacheSize)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	// Config file
	configFile, _ := flags.GetString("config")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("crossword")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Env file sits above the config file
	envFile, _ := flags.GetString("env-file")
	if envFile != "" {
		values, err := godotenv.Read(envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to read env file %s: %w", envFile, err)
		}
		overlay := make(map[string]any, len(values))
		for k, val := range values {
			overlay[strings.ToLower(k)] = val
		}
		if err := v.MergeConfigMap(overlay); err != nil {
			return Config{}, fmt.Errorf("failed to merge env file %s: %w", envFile, err)
		}
	}

	v.AutomaticEnv()

	for name, key := range flagKeys {
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	cfg := Config{
		Host:               v.GetString("host"),
		Port:               v.GetInt("port"),
		DatabaseURL:        NormalizeDatabaseURL(v.GetString("database_url")),
		DatabaseType:       v.GetString("database_type"),
		CORSOrigins:        SplitList(v.GetString("cors_origins")),
		CrosshareURL:       strings.TrimRight(v.GetString("crosshare_url"), "/"),
		MinClues:           v.GetInt("min_clues"),
		MaxClues:           v.GetInt("max_clues"),
		CrosshareMaxPages:  v.GetInt("crosshare_max_pages"),
		CrosshareTimeout:   v.GetDuration("crosshare_timeout"),
		CrosshareCacheSize: v.GetInt("crosshare_cache_size"),
		LogLevel:           strings.ToLower(v.GetString("log_level")),
		LogFormat:          strings.ToLower(v.GetString("log_format")),
		EnvFile:            envFile,
		ConfigFile:         v.ConfigFileUsed(),
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = string(InferDialect(cfg.DatabaseURL))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.DatabaseURL == "" {
		return errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	if _, err := db.ParseDialect(c.DatabaseType); err != nil {
		return err
	}
	if c.MinClues < 0 || c.MaxClues <= c.MinClues+1 {
		return fmt.Errorf("invalid clue range: need %d < clues < %d to admit at least one size", c.MinClues, c.MaxClues)
	}
	if c.CrosshareMaxPages < 1 {
		return fmt.Errorf("invalid crosshare max pages %d", c.CrosshareMaxPages)
	}
	if c.CrosshareTimeout <= 0 {
		return fmt.Errorf("invalid crosshare timeout %s", c.CrosshareTimeout)
	}
	if c.CrosshareCacheSize < 1 {
		return fmt.Errorf("invalid crosshare cache size %d", c.CrosshareCacheSize)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q", c.LogFormat)
	}
	return nil
}

// NormalizeDatabaseURL rewrites SQLAlchemy-style driver URLs to ones lib/pq accepts
func NormalizeDatabaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, prefix := range []string{"postgresql+asyncpg://", "postgresql+psycopg://", "postgresql://"} {
		if strings.HasPrefix(raw, prefix) {
			return "postgres://" + strings.TrimPrefix(raw, prefix)
		}
	}
	return raw
}

// InferDialect picks a dialect from the URL scheme, defaulting to SQLite
func InferDialect(url string) db.Dialect {
	if strings.HasPrefix(url, "postgres://") {
		return db.Postgres
	}
	return db.SQLite
}

// SplitList splits a comma-separated list, dropping blanks
func SplitList(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
