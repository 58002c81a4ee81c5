package inmemdb

import (
	"context"

	"github.com/Renato2024Valente/Buscativa2026/core"
	"github.com/Renato2024Valente/Buscativa2026/core/attendance"
)

func (repo *repository) GetRecord(_ context.Context, id int) (attendance.Record, error) {
	t, unlock := repo.read()
	defer unlock()

	if rec, ok := t.record[id]; ok {
		return rec, nil
	}
	return attendance.Record{}, attendance.ErrRecordNotFound
}

func (repo *repository) FindRecord(_ context.Context, studentID int, weekStart core.Date) (attendance.Record, error) {
	t, unlock := repo.read()
	defer unlock()

	for _, rec := range t.record {
		if rec.StudentID == studentID && rec.WeekStart.Equal(weekStart) {
			return rec, nil
		}
	}
	return attendance.Record{}, attendance.ErrRecordNotFound
}

// checkRecordUniqueness enforces unique (student, week start).
func (t *tables) checkRecordUniqueness(rec attendance.Record) error {
	for id, other := range t.record {
		if id != rec.ID && other.StudentID == rec.StudentID && other.WeekStart.Equal(rec.WeekStart) {
			return core.ErrConflict
		}
	}
	return nil
}

func (repo *repository) CreateRecord(_ context.Context, rec attendance.Record) (attendance.Record, error) {
	t, unlock := repo.write()
	defer unlock()

	if _, ok := t.student[rec.StudentID]; !ok {
		return attendance.Record{}, attendance.ErrStudentNotFound
	}
	rec.ID = 0
	if err := t.checkRecordUniqueness(rec); err != nil {
		return attendance.Record{}, err
	}
	t.recordSeq++
	rec.ID = t.recordSeq
	t.record[rec.ID] = rec
	return rec, nil
}

func (repo *repository) UpdateRecord(_ context.Context, rec attendance.Record) (attendance.Record, error) {
	t, unlock := repo.write()
	defer unlock()

	orig, ok := t.record[rec.ID]
	if !ok {
		return attendance.Record{}, attendance.ErrRecordNotFound
	}
	if err := t.checkRecordUniqueness(rec); err != nil {
		return attendance.Record{}, err
	}
	rec.CreatedAt = orig.CreatedAt
	t.record[rec.ID] = rec
	return rec, nil
}

func (repo *repository) DeleteRecord(_ context.Context, id int) error {
	t, unlock := repo.write()
	defer unlock()

	if _, ok := t.record[id]; !ok {
		return attendance.ErrRecordNotFound
	}
	t.deleteRecord(id)
	return nil
}

// deleteRecord removes a record and its case.
func (t *tables) deleteRecord(id int) {
	for caseID, cs := range t.cases {
		if cs.RecordID == id {
			delete(t.cases, caseID)
		}
	}
	delete(t.record, id)
}
