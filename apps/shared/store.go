package shared

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/Renato2024Valente/Buscativa2026/core"
	"github.com/Renato2024Valente/Buscativa2026/core/attendance"
	"github.com/Renato2024Valente/Buscativa2026/storage/database"
	inmemdb "github.com/Renato2024Valente/Buscativa2026/storage/database/inmem"
	sqlxrepos "github.com/Renato2024Valente/Buscativa2026/storage/database/sqlx"
)

// Storage is the attendance store chosen by the configuration, with its SQL connection if any.
type Storage struct {
	Store  attendance.Store
	Engine string
	DB     *sqlx.DB
}

// OpenStorage opens the configured store. SQL databases are migrated to the latest version.
func OpenStorage(conf *core.Config) (*Storage, error) {
	driver, _, err := database.DriverAndDSN(conf.Database)
	if err != nil {
		return nil, errors.Wrap(err, "resolving database")
	}
	if driver == core.EngineMemory {
		return &Storage{Store: inmemdb.Open(), Engine: driver}, nil
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}
	if err = database.Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Storage{Store: sqlxrepos.NewStore(db), Engine: driver, DB: db}, nil
}

func (s *Storage) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}
