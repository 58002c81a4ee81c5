package logsvc

import (
	"bytes"
	"log"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Renato2024Valente/Buscativa2026/core"
)

func newTestLogger(buf *bytes.Buffer) *RollbarLogger {
	return NewRollbarLogger(log.New(buf, "", 0), &core.Config{Env: "TEST", TestMode: true})
}

func TestRollbarLogger_prepare(t *testing.T) {
	lgr := newTestLogger(new(bytes.Buffer))
	err := errors.New("boom")
	req := httptest.NewRequest("GET", "/api/attendance", nil)

	args := lgr.prepare("msg", []interface{}{err, map[string]interface{}{"case_id": 3}, req, 42})
	require.Len(t, args, 4)
	assert.Equal(t, "msg", args[0])
	assert.Equal(t, err, args[1])
	assert.Equal(t, req, args[2])
	assert.Equal(t, map[string]interface{}{"case_id": 3, "arg3": "42"}, args[3])

	assert.Equal(t, []interface{}{"only"}, lgr.prepare("only", nil))
}

func TestRollbarLogger_print(t *testing.T) {
	buf := new(bytes.Buffer)
	lgr := newTestLogger(buf)

	lgr.Info("outreach case open", map[string]interface{}{"case_id": 1})
	lgr.Warn("reading class cache", httptest.NewRequest("DELETE", "/api/attendance/4", nil))

	assert.Equal(t,
		"INFO: outreach case open\nmap[case_id:1]\nWARN: reading class cache\nDELETE /api/attendance/4\n",
		buf.String())
}
