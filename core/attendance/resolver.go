package attendance

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// identity is the cleaned student identity of a submission.
type identity struct {
	name           string
	class          string
	registrationID string // empty when absent
}

// findStudent looks a student up by (registration id, class) first, then by (name, class).
func findStudent(ctx context.Context, repo Repository, id identity) (Student, error) {
	if id.registrationID != "" {
		stu, err := repo.FindStudentByRegistration(ctx, id.registrationID, id.class)
		if err == nil || !errors.Is(err, ErrStudentNotFound) {
			return stu, err
		}
	}
	return repo.FindStudentByName(ctx, id.name, id.class)
}

// resolveStudent returns the student matching id, updated in place, or a new active student.
// The registration id of a known student is only overwritten by a non-empty value.
func resolveStudent(ctx context.Context, repo Repository, id identity, now time.Time) (stu Student, created bool, err error) {
	stu, err = findStudent(ctx, repo, id)
	switch {
	case err == nil:
		if stu.Name == id.name && stu.Class == id.class &&
			(id.registrationID == "" || (stu.RegistrationID != nil && *stu.RegistrationID == id.registrationID)) {
			return stu, false, nil
		}
		stu.Name = id.name
		stu.Class = id.class
		if id.registrationID != "" {
			regID := id.registrationID
			stu.RegistrationID = &regID
		}
		stu, err = repo.UpdateStudent(ctx, stu)
		return stu, false, errors.Wrap(err, "updating student")

	case errors.Is(err, ErrStudentNotFound):
		stu = Student{Name: id.name, Class: id.class, Active: true, CreatedAt: now}
		if id.registrationID != "" {
			regID := id.registrationID
			stu.RegistrationID = &regID
		}
		stu, err = repo.CreateStudent(ctx, stu)
		return stu, true, errors.Wrap(err, "creating student")

	default:
		return Student{}, false, errors.Wrap(err, "resolving student")
	}
}
