package sqlxrepos

import (
	"context"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/Renato2024Valente/Buscativa2026/core/attendance"
)

const studentColumns = "id, name, registration_id, class_name, active, created_at"

type studentRow struct {
	ID             int         `db:"id"`
	Name           string      `db:"name"`
	RegistrationID null.String `db:"registration_id"`
	Class          string      `db:"class_name"`
	Active         bool        `db:"active"`
	CreatedAt      time.Time   `db:"created_at"`
}

func (row studentRow) student() attendance.Student {
	return attendance.Student{
		ID:             row.ID,
		Name:           row.Name,
		RegistrationID: row.RegistrationID.Ptr(),
		Class:          row.Class,
		Active:         row.Active,
		CreatedAt:      row.CreatedAt.UTC(),
	}
}

func (repo *repository) getStudent(ctx context.Context, msg, where string, args ...interface{}) (attendance.Student, error) {
	var row studentRow
	query := "SELECT " + studentColumns + " FROM students WHERE " + where + " ORDER BY id LIMIT 1"
	if err := repo.exec.QueryRowxContext(ctx, repo.rebind(query), args...).StructScan(&row); err != nil {
		return attendance.Student{}, trapNoRowsErr(err, attendance.ErrStudentNotFound, msg)
	}
	return row.student(), nil
}

func (repo *repository) GetStudent(ctx context.Context, id int) (attendance.Student, error) {
	return repo.getStudent(ctx, "finding student by ID", "id = ?", id)
}

func (repo *repository) FindStudentByRegistration(ctx context.Context, registrationID, class string) (attendance.Student, error) {
	return repo.getStudent(ctx, "finding student by registration id", "registration_id = ? AND class_name = ?", registrationID, class)
}

func (repo *repository) FindStudentByName(ctx context.Context, name, class string) (attendance.Student, error) {
	return repo.getStudent(ctx, "finding student by name", "name = ? AND class_name = ?", name, class)
}

func (repo *repository) CreateStudent(ctx context.Context, stu attendance.Student) (attendance.Student, error) {
	if stu.CreatedAt.IsZero() {
		stu.CreatedAt = time.Now().UTC()
	}
	id, err := repo.insert(ctx,
		"INSERT INTO students (name, registration_id, class_name, active, created_at) VALUES (?, ?, ?, ?, ?) RETURNING id",
		stu.Name, null.StringFromPtr(stu.RegistrationID), stu.Class, stu.Active, stu.CreatedAt.UTC())
	if err != nil {
		return attendance.Student{}, trapErr(err, "inserting student")
	}
	stu.ID = id
	return stu, nil
}

func (repo *repository) UpdateStudent(ctx context.Context, stu attendance.Student) (attendance.Student, error) {
	err := repo.execOne(ctx, attendance.ErrStudentNotFound,
		"UPDATE students SET name = ?, registration_id = ?, class_name = ?, active = ? WHERE id = ?",
		stu.Name, null.StringFromPtr(stu.RegistrationID), stu.Class, stu.Active, stu.ID)
	if err != nil {
		return attendance.Student{}, trapErr(err, "updating student")
	}
	return repo.GetStudent(ctx, stu.ID)
}

func (repo *repository) DeleteStudent(ctx context.Context, id int) error {
	_, err := repo.exec.ExecContext(ctx, repo.rebind(
		"DELETE FROM outreach_cases WHERE record_id IN (SELECT id FROM attendance_records WHERE student_id = ?)"), id)
	if err != nil {
		return trapErr(err, "deleting student outreach cases")
	}
	if _, err = repo.exec.ExecContext(ctx, repo.rebind("DELETE FROM attendance_records WHERE student_id = ?"), id); err != nil {
		return trapErr(err, "deleting student attendance records")
	}
	return trapErr(repo.execOne(ctx, attendance.ErrStudentNotFound, "DELETE FROM students WHERE id = ?", id), "deleting student")
}
