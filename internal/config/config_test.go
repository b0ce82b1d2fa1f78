package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 7, cfg.Leaderboard.WindowDays)
	assert.Equal(t, 3, cfg.Leaderboard.Size)
	assert.NotEmpty(t, cfg.JWT.Secret, "development gets a fallback secret")
}

func TestLoad_YAMLAndEnvOverride(t *testing.T) {
	path := writeFile(t, "config.yaml", `
server:
  port: 9000
  env: local
database:
  driver: mysql
  host: db
  port: 3306
  user: picks
  password: pw
  name: pickboard
leaderboard:
  window_days: 3
  size: 5
`)
	t.Setenv("PORT", "9100")
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, 3, cfg.Leaderboard.WindowDays)
	assert.Equal(t, 5, cfg.Leaderboard.Size)
	assert.Equal(t, "picks:pw@tcp(db:3306)/pickboard?charset=utf8mb4&parseTime=True&loc=Local", cfg.Database.GetDSN())
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	path := writeFile(t, "config.yaml", "server:\n  env: production\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	path := writeFile(t, "config.yaml", "database:\n  driver: oracle\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", "server: [unclosed")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestGetDSN_Postgres(t *testing.T) {
	d := DatabaseConfig{Driver: "postgres", Host: "pg", Port: 5432, User: "u", Password: "p", Name: "n"}
	assert.Equal(t, "host=pg port=5432 user=u password=p dbname=n sslmode=disable", d.GetDSN())
}

func TestGetDSN_SQLiteFallback(t *testing.T) {
	assert.Equal(t, DefaultSQLiteFile, Default().Database.GetDSN())
	assert.Equal(t, "picks.db", DatabaseConfig{Driver: "sqlite", Name: "picks.db"}.GetDSN())
	assert.Equal(t, ":memory:", DatabaseConfig{Driver: "sqlite", DSN: ":memory:", Name: "x"}.GetDSN())
}

func TestLoad_ProductionConfigBuildsPostgresDSN(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("DB_DSN", "")
	t.Setenv("JWT_SECRET", "prod-secret")
	t.Setenv("DB_USER", "pickboard")
	t.Setenv("DB_PASSWORD", "pw")

	cfg, err := Load(filepath.Join("..", "..", "configs", "config.production.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Empty(t, cfg.Database.DSN)
	assert.Equal(t, "host=postgres port=5432 user=pickboard password=pw dbname=pickboard sslmode=disable", cfg.Database.GetDSN())
	assert.True(t, cfg.Redis.Enabled)
}

func TestLoadDotEnv_OnlyExistingFiles(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("PICKBOARD_TEST_VAR=hello\n"), 0o600))
	t.Setenv("PICKBOARD_TEST_VAR", "")
	os.Unsetenv("PICKBOARD_TEST_VAR")

	loaded := LoadDotEnv(filepath.Join(dir, ".env.local"), envFile)

	assert.Equal(t, []string{envFile}, loaded)
	assert.Equal(t, "hello", os.Getenv("PICKBOARD_TEST_VAR"))
}
