// Package attendance records weekly attendance and drives the outreach cases it triggers.
package attendance

import (
	"context"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/Renato2024Valente/Buscativa2026/core"
)

type Service struct {
	store      Store
	validate   *validator.Validate
	translator ut.Translator
	log        core.Logger
	cache      ClassCache // optional
	now        func() time.Time
}

// NewService returns the attendance service. cache may be nil.
func NewService(store Store, validate *validator.Validate, translator ut.Translator, logger core.Logger, cache ClassCache) *Service {
	return &Service{
		store:      store,
		validate:   validate,
		translator: translator,
		log:        logger,
		cache:      cache,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// RecordAttendance resolves the student, upserts the weekly record and reconciles its outreach case
// as one unit of work.
func (svc *Service) RecordAttendance(ctx context.Context, na NewAttendance) (RecordResult, error) {
	if err := na.Validate(svc.validate, svc.translator); err != nil {
		return RecordResult{}, err
	}
	week, err := core.ParseDate(na.WeekStart)
	if err != nil {
		return RecordResult{}, err
	}
	total, absences := *na.TotalClasses, *na.Absences
	pct, err := Percentage(total, absences)
	if err != nil {
		return RecordResult{}, err
	}

	var (
		res        RecordResult
		transition Transition
		newStudent bool
		now        = svc.now()
		id         = identity{name: na.Name, class: na.Class, registrationID: na.RegistrationID}
	)
	err = svc.store.WithinTx(ctx, func(repo Repository) error {
		stu, created, err := resolveStudent(ctx, repo, id, now)
		if err != nil {
			return err
		}
		newStudent = created

		rec, created, err := upsertRecord(ctx, repo, stu.ID, week, total, absences, pct, now)
		if err != nil {
			return err
		}

		var cs *Case
		switch existing, err := repo.FindCaseByRecord(ctx, rec.ID); {
		case err == nil:
			cs = &existing
		case !errors.Is(err, ErrCaseNotFound):
			return errors.Wrap(err, "finding outreach case")
		}

		cs, transition = reconcile(cs, rec.ID, pct, now)
		switch transition {
		case TransitionOpen:
			saved, err := repo.CreateCase(ctx, *cs)
			if err != nil {
				return errors.Wrap(err, "opening outreach case")
			}
			cs = &saved
		case TransitionCancel, TransitionReopen:
			saved, err := repo.UpdateCase(ctx, *cs)
			if err != nil {
				return errors.Wrap(err, "updating outreach case")
			}
			cs = &saved
		}

		res = RecordResult{Created: created, Record: detailRecord(rec, stu)}
		if cs != nil {
			res.Case = &CaseSummary{ID: cs.ID, Status: cs.Status}
		}
		return nil
	})
	if err != nil {
		return RecordResult{}, err
	}

	if transition != TransitionNone {
		svc.log.Info("outreach case "+transition.String(), map[string]interface{}{
			"case_id":    res.Case.ID,
			"record_id":  res.Record.ID,
			"percentage": pct,
		})
	}
	if newStudent {
		svc.invalidateClasses(ctx)
	}
	return res, nil
}

// upsertRecord creates the (student, week) record or overwrites its totals in place.
func upsertRecord(ctx context.Context, repo Repository, studentID int, week core.Date, total, absences int, pct float64, now time.Time) (rec Record, created bool, err error) {
	rec, err = repo.FindRecord(ctx, studentID, week)
	switch {
	case err == nil:
		rec.TotalClasses = total
		rec.Absences = absences
		rec.Percentage = pct
		rec.UpdatedAt = now
		rec, err = repo.UpdateRecord(ctx, rec)
		return rec, false, errors.Wrap(err, "updating attendance record")

	case errors.Is(err, ErrRecordNotFound):
		rec = Record{
			StudentID:    studentID,
			WeekStart:    week,
			TotalClasses: total,
			Absences:     absences,
			Percentage:   pct,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		rec, err = repo.CreateRecord(ctx, rec)
		return rec, true, errors.Wrap(err, "creating attendance record")

	default:
		return Record{}, false, errors.Wrap(err, "finding attendance record")
	}
}

// DeleteAttendance removes a record and its outreach case.
// Callers must have checked the shared credential beforehand.
func (svc *Service) DeleteAttendance(ctx context.Context, recordID int) error {
	return svc.store.WithinTx(ctx, func(repo Repository) error {
		return repo.DeleteRecord(ctx, recordID)
	})
}

// CompleteOutreach marks a pending case as done with the outcome reported by a teacher.
func (svc *Service) CompleteOutreach(ctx context.Context, caseID int, co CompleteOutreach) (CaseSummary, error) {
	if err := co.Validate(svc.validate, svc.translator); err != nil {
		return CaseSummary{}, err
	}

	var cs Case
	err := svc.store.WithinTx(ctx, func(repo Repository) error {
		var err error
		if cs, err = repo.GetCase(ctx, caseID); err != nil {
			return err
		}
		if err = cs.complete(co.TeacherName, *co.Success, core.CleanStringPtr(co.Notes), svc.now()); err != nil {
			return err
		}
		cs, err = repo.UpdateCase(ctx, cs)
		return errors.Wrap(err, "completing outreach case")
	})
	if err != nil {
		return CaseSummary{}, err
	}

	svc.log.Info("outreach case done", map[string]interface{}{"case_id": cs.ID, "success": *cs.Success})
	return CaseSummary{ID: cs.ID, Status: cs.Status}, nil
}

// DeleteStudent removes a student with all its records and cases.
func (svc *Service) DeleteStudent(ctx context.Context, id int) error {
	err := svc.store.WithinTx(ctx, func(repo Repository) error {
		return repo.DeleteStudent(ctx, id)
	})
	if err != nil {
		return err
	}
	svc.invalidateClasses(ctx)
	return nil
}

// SetStudentActive hides (or shows again) a student in the listings.
func (svc *Service) SetStudentActive(ctx context.Context, id int, active bool) (Student, error) {
	var stu Student
	err := svc.store.WithinTx(ctx, func(repo Repository) error {
		var err error
		if stu, err = repo.GetStudent(ctx, id); err != nil {
			return err
		}
		if stu.Active == active {
			return nil
		}
		stu.Active = active
		stu, err = repo.UpdateStudent(ctx, stu)
		return errors.Wrap(err, "updating student")
	})
	return stu, err
}

func (svc *Service) invalidateClasses(ctx context.Context) {
	if svc.cache == nil {
		return
	}
	if err := svc.cache.Invalidate(ctx); err != nil {
		svc.log.Warn("invalidating class cache", err)
	}
}
