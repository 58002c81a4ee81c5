package database

import (
	"database/sql"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Renato2024Valente/Buscativa2026/core"
)

func TestDriverAndDSN(t *testing.T) {
	tests := []struct {
		name       string
		conf       core.DatabaseConfig
		wantDriver string
		wantDSN    string
		wantErr    bool
	}{
		{
			name:       "empty falls back to local sqlite",
			conf:       core.DatabaseConfig{},
			wantDriver: core.EngineSQLite,
			wantDSN:    "file:local.db?" + sqliteParams,
		},
		{
			name:       "postgres scheme",
			conf:       core.DatabaseConfig{URL: "postgres://u:p@db:5432/app?sslmode=disable"},
			wantDriver: core.EnginePostgres,
			wantDSN:    "postgres://u:p@db:5432/app?sslmode=disable",
		},
		{
			name:       "postgresql scheme",
			conf:       core.DatabaseConfig{URL: " postgresql://u:p@db/app "},
			wantDriver: core.EnginePostgres,
			wantDSN:    "postgresql://u:p@db/app",
		},
		{
			name:       "sqlite relative path",
			conf:       core.DatabaseConfig{URL: "sqlite:///data/app.db"},
			wantDriver: core.EngineSQLite,
			wantDSN:    "file:data/app.db?" + sqliteParams,
		},
		{
			name:       "sqlite absolute path",
			conf:       core.DatabaseConfig{URL: "sqlite:////var/lib/app.db"},
			wantDriver: core.EngineSQLite,
			wantDSN:    "file:/var/lib/app.db?" + sqliteParams,
		},
		{
			name:       "file dsn keeps its params",
			conf:       core.DatabaseConfig{URL: "file::memory:?cache=shared"},
			wantDriver: core.EngineSQLite,
			wantDSN:    "file::memory:?cache=shared&" + sqliteParams,
		},
		{
			name:       "forced sqlite engine with a plain path",
			conf:       core.DatabaseConfig{URL: "app.db", Engine: core.EngineSQLite},
			wantDriver: core.EngineSQLite,
			wantDSN:    "file:app.db?" + sqliteParams,
		},
		{
			name:       "memory engine",
			conf:       core.DatabaseConfig{URL: "postgres://ignored", Engine: core.EngineMemory},
			wantDriver: core.EngineMemory,
		},
		{name: "postgres engine without url", conf: core.DatabaseConfig{Engine: core.EnginePostgres}, wantErr: true},
		{name: "unknown engine", conf: core.DatabaseConfig{Engine: "mysql"}, wantErr: true},
		{name: "unknown scheme", conf: core.DatabaseConfig{URL: "mysql://u:p@db/app"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			driver, dsn, err := DriverAndDSN(tt.conf)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDriver, driver)
			assert.Equal(t, tt.wantDSN, dsn)
		})
	}
}

func TestOpenAndMigrate(t *testing.T) {
	conf := &core.Config{Database: core.DatabaseConfig{URL: "file::memory:"}}
	db, err := Open(conf)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	assert.Equal(t, core.EngineSQLite, db.DriverName())

	require.NoError(t, Migrate(db))

	var tables []string
	err = db.Select(&tables, "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' AND name <> 'goose_db_version' ORDER BY name")
	require.NoError(t, err)
	assert.Equal(t, []string{"attendance_records", "outreach_cases", "students"}, tables)

	require.NoError(t, RunMigrations(db, "reset"))
	tables = nil
	err = db.Select(&tables, "SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('students', 'attendance_records', 'outreach_cases')")
	require.NoError(t, err)
	assert.Empty(t, tables)
}

func TestRunMigrations_UsesDialectDir(t *testing.T) {
	conf := &core.Config{Database: core.DatabaseConfig{URL: "file::memory:"}}
	db, err := Open(conf)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var gotDir string
	var gotArgs []string
	gooseRunFunc = func(command string, _ *sql.DB, dir string, args ...string) error {
		gotDir, gotArgs = dir, args
		return nil
	}
	defer func() { gooseRunFunc = goose.Run }()

	require.NoError(t, RunMigrations(db, "down-to", "0"))
	assert.Equal(t, "migrations/sqlite3", gotDir)
	assert.Equal(t, []string{"0"}, gotArgs)
}
