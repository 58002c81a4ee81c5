package echoapi_test

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/Renato2024Valente/Buscativa2026/apps/api/echo"
	"github.com/Renato2024Valente/Buscativa2026/core"
	"github.com/Renato2024Valente/Buscativa2026/core/attendance"
	inmemdb "github.com/Renato2024Valente/Buscativa2026/storage/database/inmem"
	testutil "github.com/Renato2024Valente/Buscativa2026/tests"
)

func TestHealth(t *testing.T) {
	app := setup(t)

	rec := app.serve(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	unmarshal(t, rec, &resp)
	assert.True(t, resp.OK)
	assert.False(t, resp.Time.IsZero())
}

func TestAuth(t *testing.T) {
	app := setup(t)

	tests := []httpTest{
		{
			name:     "status without session",
			method:   http.MethodGet,
			path:     "/api/auth/status",
			wantCode: http.StatusOK,
			wantData: marshalObj(t, StatusResponse{OK: true}),
		},
		{
			name:     "login with wrong password",
			method:   http.MethodPost,
			path:     "/api/auth/login",
			body:     marshalObj(t, PasswordRequest{Password: "nope"}),
			wantCode: http.StatusUnauthorized,
			wantData: marshalObj(t, errAccessDenied),
		},
		{
			name:     "login without password",
			method:   http.MethodPost,
			path:     "/api/auth/login",
			wantCode: http.StatusUnauthorized,
			wantData: marshalObj(t, errAccessDenied),
		},
		{
			name:     "status with a forged token",
			method:   http.MethodGet,
			path:     "/api/auth/status",
			token:    "not.a.jwt",
			wantCode: http.StatusOK,
			wantData: marshalObj(t, StatusResponse{OK: true}),
		},
		{
			name:     "logout",
			method:   http.MethodPost,
			path:     "/api/auth/logout",
			wantCode: http.StatusOK,
			wantData: marshalObj(t, OKResponse{OK: true}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.serve(tt.method, tt.path, tt.token, tt.body)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("login sets the session cookie", func(t *testing.T) {
		rec := app.serve(http.MethodPost, "/api/auth/login", "", marshalObj(t, PasswordRequest{Password: "  " + password + " "}))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp LoginResponse
		unmarshal(t, rec, &resp)
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, resp.Token, cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)

		// the cookie alone authenticates
		req, rec := newRequest(http.MethodGet, "/api/auth/status")
		req.AddCookie(cookies[0])
		app.server.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marshalObj(t, StatusResponse{OK: true, Authenticated: true})}, rec)

		rec = app.serve(http.MethodGet, "/api/auth/status", resp.Token)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marshalObj(t, StatusResponse{OK: true, Authenticated: true})}, rec)
	})
}

func TestAttendanceAPI_requiresSession(t *testing.T) {
	app := setup(t)
	body := marshalObj(t, testutil.Attendance("Ana", "", "7A", "2024-03-04", 10, 3))

	tests := []httpTest{
		{name: "list", method: http.MethodGet, path: "/api/attendance"},
		{name: "record", method: http.MethodPost, path: "/api/attendance", body: body},
		{name: "delete", method: http.MethodDelete, path: "/api/attendance/1", body: marshalObj(t, PasswordRequest{Password: password})},
		{name: "bad token", method: http.MethodGet, path: "/api/attendance", token: "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.wantCode = http.StatusUnauthorized
			tt.wantData = marshalObj(t, errAuthRequired)
			rec := app.serve(tt.method, tt.path, tt.token, tt.body)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func TestAttendanceAPI(t *testing.T) {
	app := setup(t)
	token := app.login(t)

	record := func(na attendance.NewAttendance, wantCode int) attendance.RecordResult {
		t.Helper()
		rec := app.serve(http.MethodPost, "/api/attendance", token, marshalObj(t, na))
		require.Equal(t, wantCode, rec.Code, rec.Body.String())
		var res attendance.RecordResult
		unmarshal(t, rec, &res)
		return res
	}

	res := record(testutil.Attendance("Ana", "12", "7A", "2024-03-04", 10, 3), http.StatusCreated)
	assert.True(t, res.Created)
	assert.Equal(t, 70.0, res.Record.Percentage)
	assert.True(t, res.Record.BelowThreshold)
	assert.Equal(t, "2024-03-04", res.Record.WeekStart.String())
	assert.Equal(t, "Ana", res.Record.Student.Name)
	require.NotNil(t, res.Case)
	assert.Equal(t, attendance.StatusPending, res.Case.Status)

	res = record(testutil.Attendance("Ana", "12", "7A", "2024-03-04", 10, 0), http.StatusOK)
	assert.False(t, res.Created)
	require.NotNil(t, res.Case)
	assert.Equal(t, attendance.StatusCancelled, res.Case.Status)

	res = record(testutil.Attendance("Bia", "", "6B", "2024-03-04", 5, 0), http.StatusCreated)
	assert.Nil(t, res.Case)
	biaRecordID := res.Record.ID

	t.Run("invalid input", func(t *testing.T) {
		tests := []struct {
			name      string
			body      string
			wantField string
		}{
			{"blank name", `{"name":" ","class":"7A","week_start":"2024-03-04","total_classes":10,"absences":1}`, "name"},
			{"bad week", `{"name":"Ana","class":"7A","week_start":"04/03/2024","total_classes":10,"absences":1}`, "week_start"},
			{"zero total", `{"name":"Ana","class":"7A","week_start":"2024-03-04","total_classes":0,"absences":0}`, "total_classes"},
			{"too many absences", `{"name":"Ana","class":"7A","week_start":"2024-03-04","total_classes":4,"absences":5}`, "absences"},
			{"missing absences", `{"name":"Ana","class":"7A","week_start":"2024-03-04","total_classes":4}`, "absences"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				rec := app.serve(http.MethodPost, "/api/attendance", token, []byte(tt.body))
				assert.Equal(t, http.StatusBadRequest, rec.Code)
				var fields map[string]string
				unmarshal(t, rec, &fields)
				assert.Contains(t, fields, tt.wantField)
			})
		}

		rec := app.serve(http.MethodPost, "/api/attendance", token, []byte(`{"name":`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("list", func(t *testing.T) {
		rec := app.serve(http.MethodGet, "/api/attendance", token)
		require.Equal(t, http.StatusOK, rec.Code)
		var views []attendance.AttendanceView
		unmarshal(t, rec, &views)
		require.Len(t, views, 2)
		assert.Equal(t, "Bia", views[0].Student.Name)
		assert.Nil(t, views[0].Outreach)
		assert.Equal(t, "Ana", views[1].Student.Name)
		require.NotNil(t, views[1].Outreach)
		assert.Equal(t, attendance.StatusCancelled, views[1].Outreach.Status)

		rec = app.serve(http.MethodGet, "/api/attendance?class=7A&week_start=2024-03-04", token)
		require.Equal(t, http.StatusOK, rec.Code)
		unmarshal(t, rec, &views)
		assert.Len(t, views, 1)

		rec = app.serve(http.MethodGet, "/api/attendance?class=9Z", token)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: []byte(`[]`)}, rec)

		rec = app.serve(http.MethodGet, "/api/attendance?week_start=yesterday", token)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "week_start")
	})

	t.Run("delete", func(t *testing.T) {
		path := fmt.Sprintf("/api/attendance/%d", biaRecordID)
		tests := []httpTest{
			{
				name:     "wrong password",
				path:     path,
				body:     marshalObj(t, PasswordRequest{Password: "guess"}),
				wantCode: http.StatusUnauthorized,
				wantData: marshalObj(t, errAccessDenied),
			},
			{
				name:     "no password",
				path:     path,
				wantCode: http.StatusUnauthorized,
				wantData: marshalObj(t, errAccessDenied),
			},
			{
				name:     "invalid id",
				path:     "/api/attendance/abc",
				body:     marshalObj(t, PasswordRequest{Password: password}),
				wantCode: http.StatusBadRequest,
				wantData: []byte(`{"id":"id must be a positive integer"}`),
			},
			{
				name:     "ok",
				path:     path,
				body:     marshalObj(t, PasswordRequest{Password: password}),
				wantCode: http.StatusNoContent,
			},
			{
				name:     "already deleted",
				path:     path,
				body:     marshalObj(t, PasswordRequest{Password: password}),
				wantCode: http.StatusNotFound,
				wantData: marshalObj(t, httpErr{Error: attendance.ErrRecordNotFound.Message}),
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				rec := app.serve(http.MethodDelete, tt.path, token, tt.body)
				checkCodeAndData(t, tt, rec)
			})
		}
	})
}

func TestOutreachAPI(t *testing.T) {
	app := setup(t)
	token := app.login(t)

	rec := app.serve(http.MethodPost, "/api/attendance", token, marshalObj(t, testutil.Attendance("Caio", "", "8C", "2024-03-11", 10, 5)))
	require.Equal(t, http.StatusCreated, rec.Code)
	var res attendance.RecordResult
	unmarshal(t, rec, &res)
	require.NotNil(t, res.Case)
	caseID := res.Case.ID
	path := fmt.Sprintf("/api/outreach/%d", caseID)

	t.Run("list is open", func(t *testing.T) {
		rec := app.serve(http.MethodGet, "/api/outreach?status=pending", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var views []attendance.OutreachView
		unmarshal(t, rec, &views)
		require.Len(t, views, 1)
		assert.Equal(t, caseID, views[0].ID)
		assert.Equal(t, "Caio", views[0].Student.Name)
		assert.Equal(t, 50.0, views[0].Record.Percentage)

		rec = app.serve(http.MethodGet, "/api/outreach?status=done", "")
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: []byte(`[]`)}, rec)

		rec = app.serve(http.MethodGet, "/api/outreach?status=whatever", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "status")
	})

	success := true
	done := attendance.CompleteOutreach{TeacherName: "Prof. Lia", Success: &success, Notes: "called the family"}
	tests := []httpTest{
		{
			name:     "missing success",
			path:     path,
			body:     []byte(`{"teacher_name":"Prof. Lia"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown case",
			path:     "/api/outreach/999",
			body:     marshalObj(t, done),
			wantCode: http.StatusNotFound,
			wantData: marshalObj(t, httpErr{Error: attendance.ErrCaseNotFound.Message}),
		},
		{
			name:     "ok without session",
			path:     path,
			body:     marshalObj(t, done),
			wantCode: http.StatusOK,
			wantData: marshalObj(t, attendance.CaseSummary{ID: caseID, Status: attendance.StatusDone}),
		},
		{
			name:     "done is terminal",
			path:     path,
			body:     marshalObj(t, done),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, httpErr{Error: attendance.ErrCaseNotPending.Message}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.serve(http.MethodPut, tt.path, tt.token, tt.body)
			if tt.wantData == nil {
				assert.Equal(t, tt.wantCode, rec.Code)
				assert.True(t, strings.Contains(rec.Body.String(), "success"), rec.Body.String())
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}

	assert.Contains(t, app.logger.Messages, "INFO: outreach case done")
}

func TestClassesAPI(t *testing.T) {
	app := setup(t)
	token := app.login(t)

	rec := app.serve(http.MethodGet, "/api/classes", "")
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: []byte(`[]`)}, rec)

	for _, class := range []string{"7B", "6A", "7B"} {
		rec = app.serve(http.MethodPost, "/api/attendance", token, marshalObj(t, testutil.Attendance("Ana", "", class, "2024-03-04", 10, 0)))
		require.Contains(t, []int{http.StatusCreated, http.StatusOK}, rec.Code)
	}
	rec = app.serve(http.MethodGet, "/api/classes", "")
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: []byte(`["6A","7B"]`)}, rec)
}

// conflictStore fails every record creation as if another writer got there first.
type conflictStore struct {
	*inmemdb.DB
}

type conflictRepo struct {
	attendance.Repository
}

func (conflictRepo) CreateRecord(context.Context, attendance.Record) (attendance.Record, error) {
	return attendance.Record{}, core.ErrConflict
}

func (s conflictStore) WithinTx(ctx context.Context, fn func(repo attendance.Repository) error) error {
	return s.DB.WithinTx(ctx, func(repo attendance.Repository) error {
		return fn(conflictRepo{repo})
	})
}

func TestAttendanceAPI_conflict(t *testing.T) {
	app := setupWithStore(t, func(db *inmemdb.DB) attendance.Store { return conflictStore{db} })
	token := app.login(t)

	rec := app.serve(http.MethodPost, "/api/attendance", token, marshalObj(t, testutil.Attendance("Ana", "12", "7A", "2024-03-04", 10, 3)))
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusConflict,
		wantData: marshalObj(t, httpErr{Error: core.ErrConflict.Error()}),
	}, rec)

	_, err := app.store.FindStudentByRegistration(context.Background(), "12", "7A")
	assert.Equal(t, attendance.ErrStudentNotFound, err)
	rows, err := app.store.QueryAttendance(context.Background(), attendance.AttendanceFilter{})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestUnknownRoute(t *testing.T) {
	app := setup(t)
	rec := app.serve(http.MethodGet, "/api/nowhere", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
