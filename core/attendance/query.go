package attendance

import (
	"context"

	"github.com/pkg/errors"
)

// ListAttendance returns the records of active students matching filter.
func (svc *Service) ListAttendance(ctx context.Context, filter AttendanceFilter) ([]AttendanceView, error) {
	rows, err := svc.store.QueryAttendance(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "querying attendance")
	}
	views := make([]AttendanceView, 0, len(rows))
	for _, row := range rows {
		views = append(views, AttendanceView{
			RecordDetail: detailRecord(row.Record, row.Student),
			Outreach:     row.Case,
		})
	}
	return views, nil
}

// ListOutreach returns the outreach cases of active students matching filter.
func (svc *Service) ListOutreach(ctx context.Context, filter OutreachFilter) ([]OutreachView, error) {
	rows, err := svc.store.QueryOutreach(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "querying outreach cases")
	}
	views := make([]OutreachView, 0, len(rows))
	for _, row := range rows {
		views = append(views, OutreachView{
			ID:          row.Case.ID,
			Status:      row.Case.Status,
			TeacherName: row.Case.TeacherName,
			Success:     row.Case.Success,
			Notes:       row.Case.Notes,
			CreatedAt:   row.Case.CreatedAt,
			CompletedAt: row.Case.CompletedAt,
			Record:      summarizeRecord(row.Record),
			Student:     summarizeStudent(row.Student),
		})
	}
	return views, nil
}

// ListClasses returns the distinct class labels, served from the cache when one is configured.
func (svc *Service) ListClasses(ctx context.Context) ([]string, error) {
	var (
		generation int64
		fill       bool // the generation was read before querying the store
	)
	if svc.cache != nil {
		classes, gen, ok, err := svc.cache.Classes(ctx)
		switch {
		case err != nil:
			svc.log.Warn("reading class cache", err)
		case ok:
			return classes, nil
		default:
			generation, fill = gen, true
		}
	}

	classes, err := svc.store.QueryClasses(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}
	if classes == nil {
		classes = []string{}
	}
	if fill {
		if err := svc.cache.SetClasses(ctx, generation, classes); err != nil {
			svc.log.Warn("writing class cache", err)
		}
	}
	return classes, nil
}
