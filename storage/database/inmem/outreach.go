package inmemdb

import (
	"context"

	"github.com/Renato2024Valente/Buscativa2026/core"
	"github.com/Renato2024Valente/Buscativa2026/core/attendance"
)

func (repo *repository) GetCase(_ context.Context, id int) (attendance.Case, error) {
	t, unlock := repo.read()
	defer unlock()

	if cs, ok := t.cases[id]; ok {
		return cs, nil
	}
	return attendance.Case{}, attendance.ErrCaseNotFound
}

func (repo *repository) FindCaseByRecord(_ context.Context, recordID int) (attendance.Case, error) {
	t, unlock := repo.read()
	defer unlock()

	if cs, ok := t.caseOf(recordID); ok {
		return cs, nil
	}
	return attendance.Case{}, attendance.ErrCaseNotFound
}

func (t *tables) caseOf(recordID int) (attendance.Case, bool) {
	for _, cs := range t.cases {
		if cs.RecordID == recordID {
			return cs, true
		}
	}
	return attendance.Case{}, false
}

func (repo *repository) CreateCase(_ context.Context, cs attendance.Case) (attendance.Case, error) {
	t, unlock := repo.write()
	defer unlock()

	if _, ok := t.record[cs.RecordID]; !ok {
		return attendance.Case{}, attendance.ErrRecordNotFound
	}
	if _, exists := t.caseOf(cs.RecordID); exists {
		return attendance.Case{}, core.ErrConflict
	}
	t.caseSeq++
	cs.ID = t.caseSeq
	t.cases[cs.ID] = cs
	return cs, nil
}

func (repo *repository) UpdateCase(_ context.Context, cs attendance.Case) (attendance.Case, error) {
	t, unlock := repo.write()
	defer unlock()

	orig, ok := t.cases[cs.ID]
	if !ok {
		return attendance.Case{}, attendance.ErrCaseNotFound
	}
	cs.RecordID = orig.RecordID
	cs.CreatedAt = orig.CreatedAt
	t.cases[cs.ID] = cs
	return cs, nil
}
