package sqlxrepos

import (
	"context"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/Renato2024Valente/Buscativa2026/core/attendance"
)

const caseColumns = "id, record_id, status, teacher_name, success, notes, created_at, completed_at"

type caseRow struct {
	ID          int         `db:"id"`
	RecordID    int         `db:"record_id"`
	Status      string      `db:"status"`
	TeacherName null.String `db:"teacher_name"`
	Success     null.Bool   `db:"success"`
	Notes       null.String `db:"notes"`
	CreatedAt   time.Time   `db:"created_at"`
	CompletedAt null.Time   `db:"completed_at"`
}

func (row caseRow) outreachCase() attendance.Case {
	cs := attendance.Case{
		ID:          row.ID,
		RecordID:    row.RecordID,
		Status:      attendance.Status(row.Status),
		TeacherName: row.TeacherName.Ptr(),
		Success:     row.Success.Ptr(),
		Notes:       row.Notes.Ptr(),
		CreatedAt:   row.CreatedAt.UTC(),
	}
	if row.CompletedAt.Valid {
		completed := row.CompletedAt.Time.UTC()
		cs.CompletedAt = &completed
	}
	return cs
}

func (repo *repository) getCase(ctx context.Context, msg, where string, args ...interface{}) (attendance.Case, error) {
	var row caseRow
	query := "SELECT " + caseColumns + " FROM outreach_cases WHERE " + where
	if err := repo.exec.QueryRowxContext(ctx, repo.rebind(query), args...).StructScan(&row); err != nil {
		return attendance.Case{}, trapNoRowsErr(err, attendance.ErrCaseNotFound, msg)
	}
	return row.outreachCase(), nil
}

func (repo *repository) GetCase(ctx context.Context, id int) (attendance.Case, error) {
	return repo.getCase(ctx, "finding outreach case by ID", "id = ?", id)
}

func (repo *repository) FindCaseByRecord(ctx context.Context, recordID int) (attendance.Case, error) {
	return repo.getCase(ctx, "finding outreach case by record", "record_id = ?", recordID)
}

func (repo *repository) CreateCase(ctx context.Context, cs attendance.Case) (attendance.Case, error) {
	if cs.CreatedAt.IsZero() {
		cs.CreatedAt = time.Now().UTC()
	}
	id, err := repo.insert(ctx,
		`INSERT INTO outreach_cases (record_id, status, teacher_name, success, notes, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		cs.RecordID, string(cs.Status), null.StringFromPtr(cs.TeacherName), null.BoolFromPtr(cs.Success),
		null.StringFromPtr(cs.Notes), cs.CreatedAt.UTC(), nullTime(cs.CompletedAt))
	if err != nil {
		return attendance.Case{}, trapErr(err, "inserting outreach case")
	}
	cs.ID = id
	return cs, nil
}

func (repo *repository) UpdateCase(ctx context.Context, cs attendance.Case) (attendance.Case, error) {
	err := repo.execOne(ctx, attendance.ErrCaseNotFound,
		"UPDATE outreach_cases SET status = ?, teacher_name = ?, success = ?, notes = ?, completed_at = ? WHERE id = ?",
		string(cs.Status), null.StringFromPtr(cs.TeacherName), null.BoolFromPtr(cs.Success),
		null.StringFromPtr(cs.Notes), nullTime(cs.CompletedAt), cs.ID)
	if err != nil {
		return attendance.Case{}, trapErr(err, "updating outreach case")
	}
	return repo.GetCase(ctx, cs.ID)
}

func nullTime(t *time.Time) null.Time {
	if t == nil {
		return null.Time{}
	}
	return null.TimeFrom(t.UTC())
}
