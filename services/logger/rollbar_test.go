package logsvc

import (
	"bytes"
	"errors"
	"log"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/studydesk/core"
)

var _ goose.Logger = RollbarLogger{}

func newTestLogger() (*RollbarLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := NewRollbarLogger(log.New(&buf, "", 0), &core.Config{Env: "TEST", TestMode: true})
	return l, &buf
}

func TestRollbarLogger_print(t *testing.T) {
	l, buf := newTestLogger()

	l.Info("subject deleted", map[string]interface{}{"subject_id": 3})
	l.Warn("exam schedule in use", errors.New("dependent rows exist"))
	l.Printf("OK   %s\n", "00001_schema.sql")

	want := "INFO: subject deleted\n" +
		"map[subject_id:3]\n" +
		"WARN: exam schedule in use\n" +
		"dependent rows exist\n" +
		"OK   00001_schema.sql\n"
	assert.Equal(t, want, buf.String())
}

func TestRollbarLogger_prepare(t *testing.T) {
	l, _ := newTestLogger()
	err := errors.New("boom")
	fields := map[string]interface{}{"quiz_id": 1}

	got := l.prepare("msg", []interface{}{err, fields, 42})
	assert.Equal(t, []interface{}{"msg", err, fields, map[string]interface{}{"arg": "42"}}, got)
}
