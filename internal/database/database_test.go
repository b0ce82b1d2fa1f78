package database

import (
	"testing"

	"github.com/pickboard/pickboard-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"
)

func TestLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, LogLevel("silent"))
	assert.Equal(t, gormlogger.Error, LogLevel("ERROR"))
	assert.Equal(t, gormlogger.Info, LogLevel("info"))
	assert.Equal(t, gormlogger.Warn, LogLevel(""))
	assert.Equal(t, gormlogger.Warn, LogLevel("verbose"))
}

func TestDialector(t *testing.T) {
	d, err := Dialector(config.DatabaseConfig{Driver: "mysql", User: "u", Password: "p", Host: "db", Port: 3306, Name: "picks"})
	require.NoError(t, err)
	assert.Equal(t, "mysql", d.Name())

	d, err = Dialector(config.DatabaseConfig{Driver: "postgres", Host: "db", Port: 5432, Name: "picks"})
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	_, err = Dialector(config.DatabaseConfig{Driver: "mysql", DSN: "not a dsn"})
	assert.Error(t, err)

	_, err = Dialector(config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestOpen_SQLite(t *testing.T) {
	db, err := Open(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:", LogLevel: "silent"})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
	assert.NoError(t, sqlDB.Ping())
}
