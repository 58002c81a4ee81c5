package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/Renato2024Valente/Buscativa2026/core"
	"github.com/Renato2024Valente/Buscativa2026/core/attendance"
)

// NewValidator returns a validator with the app's custom tags and translations registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	return validate, translator
}

// Logger is a core.Logger keeping messages in memory.
type Logger struct {
	mutex    sync.Mutex
	Messages []string
}

var _ core.Logger = (*Logger)(nil)

func (l *Logger) add(level, msg string) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.Messages = append(l.Messages, fmt.Sprintf("%s: %s", level, msg))
}

func (l *Logger) Debug(msg string, _ ...interface{}) { l.add("DEBUG", msg) }
func (l *Logger) Info(msg string, _ ...interface{})  { l.add("INFO", msg) }
func (l *Logger) Warn(msg string, _ ...interface{})  { l.add("WARN", msg) }
func (l *Logger) Error(msg string, _ ...interface{}) { l.add("ERROR", msg) }
func (l *Logger) Fatal(msg string, _ ...interface{}) { l.add("FATAL", msg) }

// Attendance builds a submission; regID may be empty.
func Attendance(name, regID, class, week string, total, absences int) attendance.NewAttendance {
	return attendance.NewAttendance{
		Name:           name,
		RegistrationID: regID,
		Class:          class,
		WeekStart:      week,
		TotalClasses:   &total,
		Absences:       &absences,
	}
}

func CreateStudent(t *testing.T, repo attendance.Repository, name, class, regID string, active bool) attendance.Student {
	stu := attendance.Student{
		Name:      name,
		Class:     class,
		Active:    active,
		CreatedAt: time.Now().UTC(),
	}
	if regID != "" {
		stu.RegistrationID = &regID
	}
	stu, err := repo.CreateStudent(context.Background(), stu)
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return stu
}

func CreateRecord(t *testing.T, repo attendance.Repository, studentID int, week string, total, absences int) attendance.Record {
	weekStart, err := core.ParseDate(week)
	if err != nil {
		t.Fatalf("CreateRecord() failed: %v", err)
	}
	pct, err := attendance.Percentage(total, absences)
	if err != nil {
		t.Fatalf("CreateRecord() failed: %v", err)
	}
	now := time.Now().UTC()
	rec, err := repo.CreateRecord(context.Background(), attendance.Record{
		StudentID:    studentID,
		WeekStart:    weekStart,
		TotalClasses: total,
		Absences:     absences,
		Percentage:   pct,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateRecord() failed: %v", err)
	}
	return rec
}

func BoolPtr(b bool) *bool { return &b }
