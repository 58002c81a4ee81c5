package sqlxrepos

import (
	"context"
	"time"

	"github.com/Renato2024Valente/Buscativa2026/core"
	"github.com/Renato2024Valente/Buscativa2026/core/attendance"
)

const recordColumns = "id, student_id, week_start, total_classes, absences, percentage, created_at, updated_at"

type recordRow struct {
	ID           int       `db:"id"`
	StudentID    int       `db:"student_id"`
	WeekStart    core.Date `db:"week_start"`
	TotalClasses int       `db:"total_classes"`
	Absences     int       `db:"absences"`
	Percentage   float64   `db:"percentage"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (row recordRow) record() attendance.Record {
	return attendance.Record{
		ID:           row.ID,
		StudentID:    row.StudentID,
		WeekStart:    row.WeekStart,
		TotalClasses: row.TotalClasses,
		Absences:     row.Absences,
		Percentage:   row.Percentage,
		CreatedAt:    row.CreatedAt.UTC(),
		UpdatedAt:    row.UpdatedAt.UTC(),
	}
}

func (repo *repository) getRecord(ctx context.Context, msg, where string, args ...interface{}) (attendance.Record, error) {
	var row recordRow
	query := "SELECT " + recordColumns + " FROM attendance_records WHERE " + where
	if err := repo.exec.QueryRowxContext(ctx, repo.rebind(query), args...).StructScan(&row); err != nil {
		return attendance.Record{}, trapNoRowsErr(err, attendance.ErrRecordNotFound, msg)
	}
	return row.record(), nil
}

func (repo *repository) GetRecord(ctx context.Context, id int) (attendance.Record, error) {
	return repo.getRecord(ctx, "finding attendance record by ID", "id = ?", id)
}

func (repo *repository) FindRecord(ctx context.Context, studentID int, weekStart core.Date) (attendance.Record, error) {
	return repo.getRecord(ctx, "finding attendance record", "student_id = ? AND week_start = ?", studentID, weekStart)
}

func (repo *repository) CreateRecord(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = now
	}
	id, err := repo.insert(ctx,
		`INSERT INTO attendance_records (student_id, week_start, total_classes, absences, percentage, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		rec.StudentID, rec.WeekStart, rec.TotalClasses, rec.Absences, rec.Percentage, rec.CreatedAt.UTC(), rec.UpdatedAt.UTC())
	if err != nil {
		return attendance.Record{}, trapErr(err, "inserting attendance record")
	}
	rec.ID = id
	return rec, nil
}

func (repo *repository) UpdateRecord(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC()
	}
	err := repo.execOne(ctx, attendance.ErrRecordNotFound,
		"UPDATE attendance_records SET week_start = ?, total_classes = ?, absences = ?, percentage = ?, updated_at = ? WHERE id = ?",
		rec.WeekStart, rec.TotalClasses, rec.Absences, rec.Percentage, rec.UpdatedAt.UTC(), rec.ID)
	if err != nil {
		return attendance.Record{}, trapErr(err, "updating attendance record")
	}
	return repo.GetRecord(ctx, rec.ID)
}

func (repo *repository) DeleteRecord(ctx context.Context, id int) error {
	if _, err := repo.exec.ExecContext(ctx, repo.rebind("DELETE FROM outreach_cases WHERE record_id = ?"), id); err != nil {
		return trapErr(err, "deleting outreach case")
	}
	return trapErr(repo.execOne(ctx, attendance.ErrRecordNotFound, "DELETE FROM attendance_records WHERE id = ?", id), "deleting attendance record")
}
