package inmemdb

import (
	"context"

	"github.com/Renato2024Valente/Buscativa2026/core"
	"github.com/Renato2024Valente/Buscativa2026/core/attendance"
)

func (repo *repository) GetStudent(_ context.Context, id int) (attendance.Student, error) {
	t, unlock := repo.read()
	defer unlock()

	if stu, ok := t.student[id]; ok {
		return stu, nil
	}
	return attendance.Student{}, attendance.ErrStudentNotFound
}

func (repo *repository) FindStudentByRegistration(_ context.Context, registrationID, class string) (attendance.Student, error) {
	t, unlock := repo.read()
	defer unlock()

	return t.findStudent(func(s attendance.Student) bool {
		return s.Class == class && s.RegistrationID != nil && *s.RegistrationID == registrationID
	})
}

func (repo *repository) FindStudentByName(_ context.Context, name, class string) (attendance.Student, error) {
	t, unlock := repo.read()
	defer unlock()

	return t.findStudent(func(s attendance.Student) bool {
		return s.Class == class && s.Name == name
	})
}

// findStudent returns the matching student with the lowest id.
func (t *tables) findStudent(match func(attendance.Student) bool) (attendance.Student, error) {
	var (
		found attendance.Student
		ok    bool
	)
	for _, stu := range t.student {
		if match(stu) && (!ok || stu.ID < found.ID) {
			found, ok = stu, true
		}
	}
	if !ok {
		return attendance.Student{}, attendance.ErrStudentNotFound
	}
	return found, nil
}

// checkStudentUniqueness enforces unique (registration id, class) when a registration id is set.
func (t *tables) checkStudentUniqueness(stu attendance.Student) error {
	if stu.RegistrationID == nil {
		return nil
	}
	for id, other := range t.student {
		if id != stu.ID && other.Class == stu.Class &&
			other.RegistrationID != nil && *other.RegistrationID == *stu.RegistrationID {
			return core.ErrConflict
		}
	}
	return nil
}

func (repo *repository) CreateStudent(_ context.Context, stu attendance.Student) (attendance.Student, error) {
	t, unlock := repo.write()
	defer unlock()

	stu.ID = 0
	if err := t.checkStudentUniqueness(stu); err != nil {
		return attendance.Student{}, err
	}
	t.studentSeq++
	stu.ID = t.studentSeq
	t.student[stu.ID] = stu
	return stu, nil
}

func (repo *repository) UpdateStudent(_ context.Context, stu attendance.Student) (attendance.Student, error) {
	t, unlock := repo.write()
	defer unlock()

	orig, ok := t.student[stu.ID]
	if !ok {
		return attendance.Student{}, attendance.ErrStudentNotFound
	}
	if err := t.checkStudentUniqueness(stu); err != nil {
		return attendance.Student{}, err
	}
	stu.CreatedAt = orig.CreatedAt
	t.student[stu.ID] = stu
	return stu, nil
}

func (repo *repository) DeleteStudent(_ context.Context, id int) error {
	t, unlock := repo.write()
	defer unlock()

	if _, ok := t.student[id]; !ok {
		return attendance.ErrStudentNotFound
	}
	for recID, rec := range t.record {
		if rec.StudentID == id {
			t.deleteRecord(recID)
		}
	}
	delete(t.student, id)
	return nil
}
