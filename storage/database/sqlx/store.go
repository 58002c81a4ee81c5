package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/Renato2024Valente/Buscativa2026/core"
	"github.com/Renato2024Valente/Buscativa2026/core/attendance"
)

// Store is the SQL attendance.Store, for postgres (lib/pq) and sqlite (go-sqlite3).
type Store struct {
	*repository
	db *sqlx.DB
}

var _ attendance.Store = (*Store)(nil) // interface compliance check

func NewStore(db *sqlx.DB) *Store {
	return &Store{repository: &repository{exec: db}, db: db}
}

// WithinTx runs fn in a transaction bound to a repository; any error or panic rolls it back.
func (s *Store) WithinTx(ctx context.Context, fn func(repo attendance.Repository) error) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(&repository{exec: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			return errors.Wrapf(err, "rolling back (%v)", rbErr)
		}
		return err
	}
	return trapErr(tx.Commit(), "committing transaction")
}

// repository runs its queries on the DB or on a transaction.
type repository struct {
	exec sqlx.ExtContext
}

func (repo *repository) rebind(query string) string {
	return repo.exec.Rebind(query)
}

// insert runs an INSERT ... RETURNING id statement.
func (repo *repository) insert(ctx context.Context, query string, args ...interface{}) (int, error) {
	var id int
	err := repo.exec.QueryRowxContext(ctx, repo.rebind(query), args...).Scan(&id)
	return id, err
}

// execOne runs a statement expected to affect one row; notFound is returned when none was.
func (repo *repository) execOne(ctx context.Context, notFound error, query string, args ...interface{}) error {
	res, err := repo.exec.ExecContext(ctx, repo.rebind(query), args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

// trapErr maps unique violations to core.ErrConflict and wraps anything else with msg.
func trapErr(err error, msg string) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
		return core.ErrConflict
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) &&
		(liteErr.ExtendedCode == sqlite3.ErrConstraintUnique || liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey) {
		return core.ErrConflict
	}
	if core.KindOf(err) != core.KindUnknown {
		return err
	}
	return errors.Wrap(err, msg)
}

// trapNoRowsErr maps sql.ErrNoRows to notFound.
func trapNoRowsErr(err error, notFound error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return trapErr(err, msg)
}
