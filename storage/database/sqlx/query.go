package sqlxrepos

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/volatiletech/null/v8"

	"github.com/Renato2024Valente/Buscativa2026/core"
	"github.com/Renato2024Valente/Buscativa2026/core/attendance"
)

// joinedRow is one row of the records/students/cases join; case columns are null when the record has none.
type joinedRow struct {
	RecordID      int       `db:"r_id"`
	StudentID     int       `db:"r_student_id"`
	WeekStart     core.Date `db:"r_week_start"`
	TotalClasses  int       `db:"r_total_classes"`
	Absences      int       `db:"r_absences"`
	Percentage    float64   `db:"r_percentage"`
	RecordCreated time.Time `db:"r_created_at"`
	RecordUpdated time.Time `db:"r_updated_at"`

	StudentName    string      `db:"s_name"`
	RegistrationID null.String `db:"s_registration_id"`
	Class          string      `db:"s_class_name"`
	Active         bool        `db:"s_active"`
	StudentCreated time.Time   `db:"s_created_at"`

	CaseID      null.Int    `db:"c_id"`
	Status      null.String `db:"c_status"`
	TeacherName null.String `db:"c_teacher_name"`
	Success     null.Bool   `db:"c_success"`
	Notes       null.String `db:"c_notes"`
	CaseCreated null.Time   `db:"c_created_at"`
	Completed   null.Time   `db:"c_completed_at"`
}

const joinedColumns = `
	r.id AS r_id, r.student_id AS r_student_id, r.week_start AS r_week_start,
	r.total_classes AS r_total_classes, r.absences AS r_absences, r.percentage AS r_percentage,
	r.created_at AS r_created_at, r.updated_at AS r_updated_at,
	s.name AS s_name, s.registration_id AS s_registration_id, s.class_name AS s_class_name,
	s.active AS s_active, s.created_at AS s_created_at,
	c.id AS c_id, c.status AS c_status, c.teacher_name AS c_teacher_name, c.success AS c_success,
	c.notes AS c_notes, c.created_at AS c_created_at, c.completed_at AS c_completed_at`

func (row joinedRow) record() attendance.Record {
	return recordRow{
		ID:           row.RecordID,
		StudentID:    row.StudentID,
		WeekStart:    row.WeekStart,
		TotalClasses: row.TotalClasses,
		Absences:     row.Absences,
		Percentage:   row.Percentage,
		CreatedAt:    row.RecordCreated,
		UpdatedAt:    row.RecordUpdated,
	}.record()
}

func (row joinedRow) student() attendance.Student {
	return studentRow{
		ID:             row.StudentID,
		Name:           row.StudentName,
		RegistrationID: row.RegistrationID,
		Class:          row.Class,
		Active:         row.Active,
		CreatedAt:      row.StudentCreated,
	}.student()
}

func (row joinedRow) outreachCase() *attendance.Case {
	if !row.CaseID.Valid {
		return nil
	}
	cs := caseRow{
		ID:          row.CaseID.Int,
		RecordID:    row.RecordID,
		Status:      row.Status.String,
		TeacherName: row.TeacherName,
		Success:     row.Success,
		Notes:       row.Notes,
		CreatedAt:   row.CaseCreated.Time,
		CompletedAt: row.Completed,
	}.outreachCase()
	return &cs
}

// conditions collects AND-ed WHERE clauses with their bind values.
type conditions struct {
	clauses []string
	args    []interface{}
}

func (c *conditions) add(clause string, arg interface{}) {
	c.clauses = append(c.clauses, clause)
	c.args = append(c.args, arg)
}

func (c *conditions) String() string {
	return strings.Join(c.clauses, " AND ")
}

func (repo *repository) selectJoined(ctx context.Context, join string, where *conditions, orderBy string) ([]joinedRow, error) {
	query := "SELECT " + joinedColumns + `
	FROM attendance_records r
	JOIN students s ON s.id = r.student_id
	` + join + " outreach_cases c ON c.record_id = r.id" +
		" WHERE " + where.String() +
		" ORDER BY " + orderBy
	rows := make([]joinedRow, 0)
	if err := sqlx.SelectContext(ctx, repo.exec, &rows, repo.rebind(query), where.args...); err != nil {
		return nil, err
	}
	return rows, nil
}

func (repo *repository) QueryAttendance(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.AttendanceRow, error) {
	where := &conditions{}
	where.add("s.active = ?", true)
	if filter.Class != "" {
		where.add("s.class_name = ?", filter.Class)
	}
	if filter.WeekStart != nil {
		where.add("r.week_start = ?", *filter.WeekStart)
	}

	joined, err := repo.selectJoined(ctx, "LEFT JOIN", where, "s.class_name ASC, s.name ASC, r.week_start DESC, r.id ASC")
	if err != nil {
		return nil, trapErr(err, "querying attendance records")
	}
	rows := make([]attendance.AttendanceRow, 0, len(joined))
	for _, row := range joined {
		rows = append(rows, attendance.AttendanceRow{Record: row.record(), Student: row.student(), Case: row.outreachCase()})
	}
	return rows, nil
}

func (repo *repository) QueryOutreach(ctx context.Context, filter attendance.OutreachFilter) ([]attendance.OutreachRow, error) {
	where := &conditions{}
	where.add("s.active = ?", true)
	if filter.Status != "" {
		where.add("c.status = ?", string(filter.Status))
	}
	if filter.Class != "" {
		where.add("s.class_name = ?", filter.Class)
	}
	if filter.WeekStart != nil {
		where.add("r.week_start = ?", *filter.WeekStart)
	}

	joined, err := repo.selectJoined(ctx, "JOIN", where, "c.status ASC, r.week_start DESC, s.class_name ASC, s.name ASC, c.id ASC")
	if err != nil {
		return nil, trapErr(err, "querying outreach cases")
	}
	rows := make([]attendance.OutreachRow, 0, len(joined))
	for _, row := range joined {
		rows = append(rows, attendance.OutreachRow{Case: *row.outreachCase(), Record: row.record(), Student: row.student()})
	}
	return rows, nil
}

func (repo *repository) QueryClasses(ctx context.Context) ([]string, error) {
	classes := make([]string, 0)
	if err := sqlx.SelectContext(ctx, repo.exec, &classes, "SELECT DISTINCT class_name FROM students ORDER BY class_name ASC"); err != nil {
		return nil, trapErr(err, "querying classes")
	}
	return classes, nil
}
