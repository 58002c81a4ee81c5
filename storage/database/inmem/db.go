package inmemdb

import (
	"context"
	"sync"

	"github.com/Renato2024Valente/Buscativa2026/core/attendance"
)

type (
	// DB is an in-memory attendance.Store. A transaction works on a copy of the
	// tables which replaces them on commit; writers are serialized.
	DB struct {
		*repository

		mutex  sync.RWMutex
		tables *tables
	}

	tables struct {
		student map[int]attendance.Student
		record  map[int]attendance.Record
		cases   map[int]attendance.Case

		studentSeq int
		recordSeq  int
		caseSeq    int
	}
)

var _ attendance.Store = (*DB)(nil) // interface compliance check

func Open() *DB {
	db := &DB{
		tables: &tables{
			student: make(map[int]attendance.Student),
			record:  make(map[int]attendance.Record),
			cases:   make(map[int]attendance.Case),
		},
	}
	db.repository = &repository{db: db}
	return db
}

func (t *tables) clone() *tables {
	c := &tables{
		student:    make(map[int]attendance.Student, len(t.student)),
		record:     make(map[int]attendance.Record, len(t.record)),
		cases:      make(map[int]attendance.Case, len(t.cases)),
		studentSeq: t.studentSeq,
		recordSeq:  t.recordSeq,
		caseSeq:    t.caseSeq,
	}
	for id, s := range t.student {
		c.student[id] = s
	}
	for id, r := range t.record {
		c.record[id] = r
	}
	for id, cs := range t.cases {
		c.cases[id] = cs
	}
	return c
}

func (db *DB) WithinTx(ctx context.Context, fn func(repo attendance.Repository) error) error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	tx := db.tables.clone()
	if err := fn(&repository{db: db, tx: tx}); err != nil {
		return err // rollback: tx is dropped
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	db.tables = tx
	return nil
}

// repository runs against the committed tables, or against tx inside a transaction
// where the DB lock is already held.
type repository struct {
	db *DB
	tx *tables
}

func (repo *repository) read() (*tables, func()) {
	if repo.tx != nil {
		return repo.tx, func() {}
	}
	repo.db.mutex.RLock()
	return repo.db.tables, repo.db.mutex.RUnlock
}

func (repo *repository) write() (*tables, func()) {
	if repo.tx != nil {
		return repo.tx, func() {}
	}
	repo.db.mutex.Lock()
	return repo.db.tables, repo.db.mutex.Unlock
}
