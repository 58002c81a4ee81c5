package attendance

import (
	"context"

	"github.com/Renato2024Valente/Buscativa2026/core"
)

type (
	// Repository is the persistence contract of the attendance core.
	// Lookups return the package's not-found errors; unique violations return core.ErrConflict.
	Repository interface {
		GetStudent(ctx context.Context, id int) (Student, error)
		FindStudentByRegistration(ctx context.Context, registrationID, class string) (Student, error)
		FindStudentByName(ctx context.Context, name, class string) (Student, error)
		CreateStudent(ctx context.Context, s Student) (Student, error)
		UpdateStudent(ctx context.Context, s Student) (Student, error)
		// DeleteStudent removes the student with its records and their cases.
		DeleteStudent(ctx context.Context, id int) error

		GetRecord(ctx context.Context, id int) (Record, error)
		FindRecord(ctx context.Context, studentID int, weekStart core.Date) (Record, error)
		CreateRecord(ctx context.Context, r Record) (Record, error)
		UpdateRecord(ctx context.Context, r Record) (Record, error)
		// DeleteRecord removes the record with its case.
		DeleteRecord(ctx context.Context, id int) error

		GetCase(ctx context.Context, id int) (Case, error)
		FindCaseByRecord(ctx context.Context, recordID int) (Case, error)
		CreateCase(ctx context.Context, c Case) (Case, error)
		UpdateCase(ctx context.Context, c Case) (Case, error)

		// QueryAttendance lists records of active students ordered by
		// class ASC, name ASC, week_start DESC, record id ASC.
		QueryAttendance(ctx context.Context, filter AttendanceFilter) ([]AttendanceRow, error)
		// QueryOutreach lists cases of active students ordered by
		// status ASC, week_start DESC, class ASC, name ASC, case id ASC.
		QueryOutreach(ctx context.Context, filter OutreachFilter) ([]OutreachRow, error)
		// QueryClasses lists the distinct class labels of all students, ascending.
		QueryClasses(ctx context.Context) ([]string, error)
	}

	// Store is a Repository able to run a unit of work atomically.
	// WithinTx commits when fn returns nil and rolls everything back otherwise.
	Store interface {
		Repository
		WithinTx(ctx context.Context, fn func(repo Repository) error) error
	}

	// ClassCache caches the class list. A miss is reported with ok == false.
	// Classes also returns the current generation; SetClasses stores the list under
	// that generation and Invalidate moves to a new one, so a list read before an
	// invalidation is never served after it.
	ClassCache interface {
		Classes(ctx context.Context) (classes []string, generation int64, ok bool, err error)
		SetClasses(ctx context.Context, generation int64, classes []string) error
		Invalidate(ctx context.Context) error
	}
)
