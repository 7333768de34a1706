// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/crossword/db"
)

// clearConfigEnv blanks every key so the host environment cannot leak in
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range flagKeys {
		name := strings.ToUpper(key)
		if old, ok := os.LookupEnv(name); ok {
			os.Unsetenv(name)
			t.Cleanup(func() { os.Setenv(name, old) })
		}
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseFlags_Defaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := ParseFlags([]string{"--env-file", ""})
	require.NoError(t, err)

	assert.Equal(t, DefaultHost, cfg.Host)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultDatabaseURL, cfg.DatabaseURL)
	assert.Equal(t, "sqlite", cfg.DatabaseType)
	assert.Equal(t, db.SQLite, cfg.Dialect())
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, DefaultCrosshareURL, cfg.CrosshareURL)
	assert.Equal(t, 20, cfg.MinClues)
	assert.Equal(t, 25, cfg.MaxClues)
	assert.Equal(t, 9, cfg.CrosshareMaxPages)
	assert.Equal(t, 30*time.Second, cfg.CrosshareTimeout)
	assert.Equal(t, 256, cfg.CrosshareCacheSize)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "127.0.0.1:8000", cfg.Addr())
}

func TestParseFlags_EnvVars(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("MIN_CLUES", "10")
	t.Setenv("MAX_CLUES", "40")
	t.Setenv("CROSSHARE_TIMEOUT", "45s")
	t.Setenv("CROSSHARE_CACHE_SIZE", "32")

	cfg, err := ParseFlags([]string{"--env-file", ""})
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "postgres://test", cfg.DatabaseURL)
	assert.Equal(t, db.Postgres, cfg.Dialect())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 10, cfg.MinClues)
	assert.Equal(t, 40, cfg.MaxClues)
	assert.Equal(t, 45*time.Second, cfg.CrosshareTimeout)
	assert.Equal(t, 32, cfg.CrosshareCacheSize)
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PORT", "9000")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "--env-file", ""})
	require.NoError(t, err)

	// CLI should override env
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "file:test.db", cfg.DatabaseURL)
}

func TestParseFlags_EnvFile(t *testing.T) {
	clearConfigEnv(t)
	envFile := writeFile(t, ".env.local", "PORT=7000\nDATABASE_URL=postgresql+asyncpg://localhost/crossword\nLOG_LEVEL=debug\n")

	t.Run("env file fills unset keys", func(t *testing.T) {
		cfg, err := ParseFlags([]string{"--env-file", envFile})
		require.NoError(t, err)

		assert.Equal(t, 7000, cfg.Port)
		assert.Equal(t, "postgres://localhost/crossword", cfg.DatabaseURL)
		assert.Equal(t, db.Postgres, cfg.Dialect())
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, envFile, cfg.EnvFile)
	})

	t.Run("real environment wins over env file", func(t *testing.T) {
		t.Setenv("PORT", "7100")
		cfg, err := ParseFlags([]string{"--env-file", envFile})
		require.NoError(t, err)
		assert.Equal(t, 7100, cfg.Port)
	})

	t.Run("missing env file is ignored", func(t *testing.T) {
		cfg, err := ParseFlags([]string{"--env-file", filepath.Join(t.TempDir(), "absent.env")})
		require.NoError(t, err)
		assert.Equal(t, DefaultPort, cfg.Port)
	})
}

func TestParseFlags_ConfigFile(t *testing.T) {
	clearConfigEnv(t)
	configFile := writeFile(t, "crossword.yaml", "port: 6000\nhost: 0.0.0.0\ncrosshare_max_pages: 3\nlog_format: json\n")

	t.Run("config file below defaults override", func(t *testing.T) {
		cfg, err := ParseFlags([]string{"--config", configFile, "--env-file", ""})
		require.NoError(t, err)

		assert.Equal(t, 6000, cfg.Port)
		assert.Equal(t, "0.0.0.0", cfg.Host)
		assert.Equal(t, 3, cfg.CrosshareMaxPages)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Equal(t, configFile, cfg.ConfigFile)
	})

	t.Run("env file wins over config file", func(t *testing.T) {
		envFile := writeFile(t, ".env.local", "PORT=6100\n")
		cfg, err := ParseFlags([]string{"--config", configFile, "--env-file", envFile})
		require.NoError(t, err)

		assert.Equal(t, 6100, cfg.Port)
		assert.Equal(t, "0.0.0.0", cfg.Host)
	})

	t.Run("explicit missing config file is an error", func(t *testing.T) {
		_, err := ParseFlags([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml"), "--env-file", ""})
		assert.Error(t, err)
	})
}

func TestParseFlags_Validation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"port out of range", []string{"-p", "70000"}},
		{"unknown database type", []string{"-t", "mysql"}},
		{"empty clue range", []string{"--min-clues", "20", "--max-clues", "21"}},
		{"zero pages", []string{"--crosshare-max-pages", "0"}},
		{"zero crosshare timeout", []string{"--crosshare-timeout", "0s"}},
		{"zero cache size", []string{"--crosshare-cache-size", "0"}},
		{"bad log level", []string{"--log-level", "verbose"}},
		{"bad log format", []string{"--log-format", "xml"}},
		{"empty database url", []string{"-d", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			_, err := ParseFlags(append(tt.args, "--env-file", ""))
			assert.Error(t, err)
		})
	}
}

func TestNormalizeDatabaseURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgresql+asyncpg://u:p@db/crossword", "postgres://u:p@db/crossword"},
		{"postgresql://localhost/crossword", "postgres://localhost/crossword"},
		{"postgres://localhost/crossword", "postgres://localhost/crossword"},
		{"sqlite://crossword.db", "sqlite://crossword.db"},
		{"  file:test.db ", "file:test.db"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDatabaseURL(tt.in))
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitList(" a, ,b ,"))
	assert.Equal(t, []string{}, SplitList(""))
}
