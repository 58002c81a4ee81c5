package database

import (
	"embed"
	"path"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // postgres driver
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"

	"github.com/Renato2024Valente/Buscativa2026/core"
)

const (
	// DefaultSQLitePath is used when no database URL is configured.
	DefaultSQLitePath = "local.db"

	sqliteParams = "_foreign_keys=on&_busy_timeout=5000"
)

//go:embed migrations
var migrations embed.FS

var errUnsupportedURL = errors.New("unsupported database URL, use postgres://, postgresql://, sqlite:// or file:")

// DriverAndDSN resolves the sql driver name and data source name for conf.
// An empty URL falls back to a local sqlite file.
func DriverAndDSN(conf core.DatabaseConfig) (driver, dsn string, err error) {
	url := strings.TrimSpace(conf.URL)
	switch conf.Engine {
	case core.EngineAuto:
	case core.EngineMemory:
		return core.EngineMemory, "", nil
	case core.EnginePostgres:
		if url == "" {
			return "", "", errors.New("a database URL is required for postgres")
		}
		return core.EnginePostgres, url, nil
	case core.EngineSQLite:
		return core.EngineSQLite, sqliteDSN(url), nil
	default:
		return "", "", errors.Errorf("unknown database engine %q", conf.Engine)
	}

	switch {
	case url == "":
		return core.EngineSQLite, sqliteDSN(""), nil
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return core.EnginePostgres, url, nil
	case strings.HasPrefix(url, "sqlite://"), strings.HasPrefix(url, "file:"):
		return core.EngineSQLite, sqliteDSN(url), nil
	default:
		return "", "", errUnsupportedURL
	}
}

// sqliteDSN turns "", a path, "sqlite:///relative.db", "sqlite:////abs.db" or "file:..." into a go-sqlite3 DSN.
func sqliteDSN(url string) string {
	switch {
	case url == "":
		url = "file:" + DefaultSQLitePath
	case strings.HasPrefix(url, "sqlite:///"):
		url = "file:" + strings.TrimPrefix(url, "sqlite:///")
	case strings.HasPrefix(url, "sqlite://"):
		url = "file:" + strings.TrimPrefix(url, "sqlite://")
	case !strings.HasPrefix(url, "file:"):
		url = "file:" + url
	}
	if strings.Contains(url, "?") {
		return url + "&" + sqliteParams
	}
	return url + "?" + sqliteParams
}

// Open connects to the SQL database described by conf and waits for it to be ready.
func Open(conf *core.Config) (*sqlx.DB, error) {
	driver, dsn, err := DriverAndDSN(conf.Database)
	if err != nil {
		return nil, err
	}
	if driver == core.EngineMemory {
		return nil, errors.New("the memory engine has no SQL database")
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if driver == core.EngineSQLite {
		// single writer; also keeps ":memory:" databases alive across calls
		db.SetMaxOpenConns(1)
	} else if conf.Database.MaxOpenConns > 0 {
		db.SetMaxOpenConns(conf.Database.MaxOpenConns)
	}
	if conf.Database.ConnMaxLifetime > 0 && driver != core.EngineSQLite {
		db.SetConnMaxLifetime(conf.Database.ConnMaxLifetime)
	}

	if err = ping(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

var (
	pingSleep    = time.Sleep // mockable
	gooseRunFunc = goose.Run  // mockable
)

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(db *sqlx.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.Ping()
		if err == nil {
			break
		}
		pingSleep(time.Duration(attempts) * 100 * time.Millisecond)
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

// RunMigrations runs a goose command (up, down, status, version, reset, redo, ...) with the
// migrations embedded for the database's dialect.
func RunMigrations(db *sqlx.DB, command string, args ...string) error {
	dialect := db.DriverName()
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect(dialect); err != nil {
		return errors.Wrap(err, "setting migrations dialect")
	}
	if err := gooseRunFunc(command, db.DB, path.Join("migrations", dialect), args...); err != nil {
		return errors.Wrapf(err, "running migrations %s", command)
	}
	return nil
}

// Migrate brings the schema up to date.
func Migrate(db *sqlx.DB) error {
	return RunMigrations(db, "up")
}
