package inmemdb

import (
	"context"
	"sort"

	"github.com/Renato2024Valente/Buscativa2026/core/attendance"
)

func (repo *repository) QueryAttendance(_ context.Context, filter attendance.AttendanceFilter) ([]attendance.AttendanceRow, error) {
	t, unlock := repo.read()
	defer unlock()

	rows := make([]attendance.AttendanceRow, 0)
	for _, rec := range t.record {
		stu, ok := t.student[rec.StudentID]
		if !ok || !stu.Active {
			continue
		}
		if filter.Class != "" && stu.Class != filter.Class {
			continue
		}
		if filter.WeekStart != nil && !rec.WeekStart.Equal(*filter.WeekStart) {
			continue
		}
		row := attendance.AttendanceRow{Record: rec, Student: stu}
		if cs, ok := t.caseOf(rec.ID); ok {
			row.Case = &cs
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		switch {
		case a.Student.Class != b.Student.Class:
			return a.Student.Class < b.Student.Class
		case a.Student.Name != b.Student.Name:
			return a.Student.Name < b.Student.Name
		case !a.Record.WeekStart.Equal(b.Record.WeekStart):
			return a.Record.WeekStart.After(b.Record.WeekStart.Time)
		default:
			return a.Record.ID < b.Record.ID
		}
	})
	return rows, nil
}

func (repo *repository) QueryOutreach(_ context.Context, filter attendance.OutreachFilter) ([]attendance.OutreachRow, error) {
	t, unlock := repo.read()
	defer unlock()

	rows := make([]attendance.OutreachRow, 0)
	for _, cs := range t.cases {
		rec, ok := t.record[cs.RecordID]
		if !ok {
			continue
		}
		stu, ok := t.student[rec.StudentID]
		if !ok || !stu.Active {
			continue
		}
		if filter.Status != "" && cs.Status != filter.Status {
			continue
		}
		if filter.Class != "" && stu.Class != filter.Class {
			continue
		}
		if filter.WeekStart != nil && !rec.WeekStart.Equal(*filter.WeekStart) {
			continue
		}
		rows = append(rows, attendance.OutreachRow{Case: cs, Record: rec, Student: stu})
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		switch {
		case a.Case.Status != b.Case.Status:
			return a.Case.Status < b.Case.Status
		case !a.Record.WeekStart.Equal(b.Record.WeekStart):
			return a.Record.WeekStart.After(b.Record.WeekStart.Time)
		case a.Student.Class != b.Student.Class:
			return a.Student.Class < b.Student.Class
		case a.Student.Name != b.Student.Name:
			return a.Student.Name < b.Student.Name
		default:
			return a.Case.ID < b.Case.ID
		}
	})
	return rows, nil
}

func (repo *repository) QueryClasses(_ context.Context) ([]string, error) {
	t, unlock := repo.read()
	defer unlock()

	seen := make(map[string]struct{})
	classes := make([]string, 0)
	for _, stu := range t.student {
		if _, ok := seen[stu.Class]; !ok {
			seen[stu.Class] = struct{}{}
			classes = append(classes, stu.Class)
		}
	}
	sort.Strings(classes)
	return classes, nil
}
