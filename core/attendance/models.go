package attendance

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/Renato2024Valente/Buscativa2026/core"
)

var (
	// errors
	ErrStudentNotFound = core.NewError(core.KindNotFound, "student not found")
	ErrRecordNotFound  = core.NewError(core.KindNotFound, "attendance record not found")
	ErrCaseNotFound    = core.NewError(core.KindNotFound, "outreach case not found")
	ErrCaseNotPending  = core.NewError(core.KindInvalidState, "only pending outreach cases can be completed")
	ErrInvalidStatus   = core.NewError(core.KindInvalidInput, "invalid status, use one of: pending, done, cancelled")
)

// Status is the lifecycle state of an outreach case.
// Ascending order (cancelled, done, pending) is the listing order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusDone      Status = "done"
	StatusCancelled Status = "cancelled"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(core.CleanString(s, true /* lower */)); st {
	case StatusPending, StatusDone, StatusCancelled:
		return st, nil
	default:
		return "", ErrInvalidStatus
	}
}

func (s Status) String() string { return string(s) }

type Student struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	RegistrationID *string   `json:"registration_id"`
	Class          string    `json:"class"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"` // UTC
}

// Record is one student's attendance for one week.
type Record struct {
	ID           int       `json:"id"`
	StudentID    int       `json:"student_id"`
	WeekStart    core.Date `json:"week_start"`
	TotalClasses int       `json:"total_classes"`
	Absences     int       `json:"absences"`
	Percentage   float64   `json:"percentage"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
}

func (r Record) BelowThreshold() bool {
	return BelowThreshold(r.Percentage)
}

// Case is the outreach case of a Record. Its Status only changes through the
// transitions in outreach.go; storage layers merely load and persist it.
type Case struct {
	ID          int        `json:"id"`
	RecordID    int        `json:"record_id"`
	Status      Status     `json:"status"`
	TeacherName *string    `json:"teacher_name"`
	Success     *bool      `json:"success"`
	Notes       *string    `json:"notes"`
	CreatedAt   time.Time  `json:"created_at"`   // UTC
	CompletedAt *time.Time `json:"completed_at"` // UTC
}

// NewAttendance contains the weekly attendance submitted for one student.
type NewAttendance struct {
	Name           string `json:"name" validate:"notblank,max=200"`
	RegistrationID string `json:"registration_id" validate:"max=50"`
	Class          string `json:"class" validate:"notblank,max=50"`
	WeekStart      string `json:"week_start" validate:"required,isodate"`
	TotalClasses   *int   `json:"total_classes" validate:"required"`
	Absences       *int   `json:"absences" validate:"required"`
}

func (na *NewAttendance) Validate(validate *validator.Validate, translator ut.Translator) error {
	na.Name = core.CleanString(na.Name)
	na.RegistrationID = core.CleanString(na.RegistrationID)
	na.Class = core.CleanString(na.Class)
	na.WeekStart = core.CleanString(na.WeekStart)

	if err := core.ValidateStruct(validate, translator, na); err != nil {
		return err
	}
	if _, err := Percentage(*na.TotalClasses, *na.Absences); err != nil {
		field := "absences"
		if err == ErrInvalidTotal {
			field = "total_classes"
		}
		return core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()})
	}
	return nil
}

// CompleteOutreach records the result of an outreach attempt.
type CompleteOutreach struct {
	TeacherName string `json:"teacher_name" validate:"notblank,max=120"`
	Success     *bool  `json:"success" validate:"required"`
	Notes       string `json:"notes"`
}

func (co *CompleteOutreach) Validate(validate *validator.Validate, translator ut.Translator) error {
	co.TeacherName = core.CleanString(co.TeacherName)
	co.Notes = core.CleanString(co.Notes)
	return core.ValidateStruct(validate, translator, co)
}

type AttendanceFilter struct {
	Class     string
	WeekStart *core.Date
}

// NewAttendanceFilter builds a filter from raw query values; blank values are ignored.
func NewAttendanceFilter(class, weekStart string) (AttendanceFilter, error) {
	week, err := parseWeekFilter(weekStart)
	if err != nil {
		return AttendanceFilter{}, err
	}
	return AttendanceFilter{Class: core.CleanString(class), WeekStart: week}, nil
}

type OutreachFilter struct {
	Status    Status
	Class     string
	WeekStart *core.Date
}

// NewOutreachFilter builds a filter from raw query values; blank values are ignored.
func NewOutreachFilter(status, class, weekStart string) (OutreachFilter, error) {
	var filter OutreachFilter
	if core.CleanString(status) != "" {
		st, err := ParseStatus(status)
		if err != nil {
			return filter, core.NewValidationError(err, core.FieldError{Field: "status", Error: err.Error()})
		}
		filter.Status = st
	}
	week, err := parseWeekFilter(weekStart)
	if err != nil {
		return filter, err
	}
	filter.Class = core.CleanString(class)
	filter.WeekStart = week
	return filter, nil
}

func parseWeekFilter(s string) (*core.Date, error) {
	if core.CleanString(s) == "" {
		return nil, nil
	}
	week, err := core.ParseDate(s)
	if err != nil {
		return nil, core.NewValidationError(err, core.FieldError{Field: "week_start", Error: "invalid date, use the YYYY-MM-DD format"})
	}
	return &week, nil
}

// AttendanceRow is a record joined with its student and optional case, as loaded by a Repository.
type AttendanceRow struct {
	Record  Record
	Student Student
	Case    *Case
}

// OutreachRow is a case joined with its record and student, as loaded by a Repository.
type OutreachRow struct {
	Case    Case
	Record  Record
	Student Student
}

// Read-only projections

type StudentSummary struct {
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	RegistrationID *string `json:"registration_id"`
	Class          string  `json:"class"`
}

func summarizeStudent(s Student) StudentSummary {
	return StudentSummary{ID: s.ID, Name: s.Name, RegistrationID: s.RegistrationID, Class: s.Class}
}

type RecordSummary struct {
	ID           int       `json:"id"`
	WeekStart    core.Date `json:"week_start"`
	TotalClasses int       `json:"total_classes"`
	Absences     int       `json:"absences"`
	Percentage   float64   `json:"percentage"`
}

func summarizeRecord(r Record) RecordSummary {
	return RecordSummary{
		ID:           r.ID,
		WeekStart:    r.WeekStart,
		TotalClasses: r.TotalClasses,
		Absences:     r.Absences,
		Percentage:   r.Percentage,
	}
}

// RecordDetail is a record flattened with its student.
type RecordDetail struct {
	RecordSummary
	Student        StudentSummary `json:"student"`
	BelowThreshold bool           `json:"below_threshold"`
}

func detailRecord(r Record, s Student) RecordDetail {
	return RecordDetail{
		RecordSummary:  summarizeRecord(r),
		Student:        summarizeStudent(s),
		BelowThreshold: r.BelowThreshold(),
	}
}

type AttendanceView struct {
	RecordDetail
	Outreach *Case `json:"outreach"`
}

type OutreachView struct {
	ID          int            `json:"id"`
	Status      Status         `json:"status"`
	TeacherName *string        `json:"teacher_name"`
	Success     *bool          `json:"success"`
	Notes       *string        `json:"notes"`
	CreatedAt   time.Time      `json:"created_at"`
	CompletedAt *time.Time     `json:"completed_at"`
	Record      RecordSummary  `json:"record"`
	Student     StudentSummary `json:"student"`
}

type CaseSummary struct {
	ID     int    `json:"id"`
	Status Status `json:"status"`
}

// RecordResult is the outcome of RecordAttendance.
type RecordResult struct {
	Created bool         `json:"created"`
	Record  RecordDetail `json:"record"`
	Case    *CaseSummary `json:"outreach"`
}
