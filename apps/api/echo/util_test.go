package echoapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	. "github.com/Renato2024Valente/Buscativa2026/apps/api/echo"
	"github.com/Renato2024Valente/Buscativa2026/core"
	"github.com/Renato2024Valente/Buscativa2026/core/access"
	"github.com/Renato2024Valente/Buscativa2026/core/attendance"
	inmemdb "github.com/Renato2024Valente/Buscativa2026/storage/database/inmem"
	testutil "github.com/Renato2024Valente/Buscativa2026/tests"
)

const password = "s3cret##"

var (
	errAuthRequired = httpErr{Error: "authentication required"}
	errAccessDenied = httpErr{Error: "access denied"}
)

type testApp struct {
	server *Server
	store  *inmemdb.DB
	logger *testutil.Logger
}

func setup(t *testing.T) testApp {
	t.Helper()
	return setupWithStore(t, func(db *inmemdb.DB) attendance.Store { return db })
}

// setupWithStore lets a test wrap the in-memory store the service runs on.
func setupWithStore(t *testing.T, wrap func(db *inmemdb.DB) attendance.Store) testApp {
	t.Helper()
	conf := &core.Config{
		TestMode:  true,
		AppName:   "Buscativa",
		SecretKey: "test-secret",
		Server:    core.ServerConfig{DisableReqLogs: true, SessionTTL: time.Hour},
	}
	gate, err := access.NewGate(password, "")
	require.NoError(t, err)

	store := inmemdb.Open()
	logger := new(testutil.Logger)
	validate, translator := testutil.NewValidator()
	svc := attendance.NewService(wrap(store), validate, translator, logger, nil)

	server := NewServer(ServerDeps{Conf: conf, Logger: logger, AttendanceSvc: svc, Gate: gate})
	return testApp{server: server, store: store, logger: logger}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func (app testApp) serve(method, path, token string, data ...[]byte) *httptest.ResponseRecorder {
	req, rec := newAuthRequest(method, path, token, data...)
	app.server.ServeHTTP(rec, req)
	return rec
}

func (app testApp) login(t *testing.T) string {
	t.Helper()
	rec := app.serve(http.MethodPost, "/api/auth/login", "", marshalObj(t, PasswordRequest{Password: password}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp LoginResponse
	unmarshal(t, rec, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func marshalObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshalObj(): %v", err)
	}
	return data
}

func unmarshal(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), dest); err != nil {
		t.Fatalf("unmarshal(%s): %v", rec.Body.String(), err)
	}
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		if rec.Body.Len() != 0 {
			t.Errorf("failed! data = %v; want empty body", rec.Body.String())
		}
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
