package gormlogger_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/logger/adapter/gormlogger"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer

	old := log.Logger
	log.Logger = zerolog.New(&buf)

	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	t.Cleanup(func() { log.Logger = old })

	return &buf
}

func TestTrace(t *testing.T) {
	sqlFunc := func() (string, int64) { return "SELECT 1", 1 }

	testCases := []struct {
		name     string
		level    glogger.LogLevel
		begin    time.Time
		err      error
		contains string
	}{
		{
			name:     "error is logged",
			level:    glogger.Warn,
			begin:    time.Now(),
			err:      errors.New("broken"),
			contains: `"level":"error"`,
		},
		{
			name:  "record not found is ignored",
			level: glogger.Warn,
			begin: time.Now(),
			err:   gorm.ErrRecordNotFound,
		},
		{
			name:     "slow query is a warning",
			level:    glogger.Warn,
			begin:    time.Now().Add(-2 * time.Second),
			contains: `"level":"warn"`,
		},
		{
			name:  "fast query at warn level is silent",
			level: glogger.Warn,
			begin: time.Now(),
		},
		{
			name:     "info level logs every statement",
			level:    glogger.Info,
			begin:    time.Now(),
			contains: `"sql":"SELECT 1"`,
		},
		{
			name:  "silent logs nothing",
			level: glogger.Silent,
			begin: time.Now(),
			err:   errors.New("broken"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf := captureLog(t)

			l := gormlogger.New().LogMode(tc.level)
			l.Trace(context.Background(), tc.begin, sqlFunc, tc.err)

			if tc.contains == "" {
				assert.Empty(t, buf.String())

				return
			}

			assert.Contains(t, buf.String(), tc.contains)
		})
	}
}

func TestLogMode(t *testing.T) {
	buf := captureLog(t)

	base := gormlogger.New()
	base.LogMode(glogger.Info).Info(context.Background(), "hello %s", "gorm")
	assert.Contains(t, buf.String(), "hello gorm")

	buf.Reset()
	// the receiver keeps its own level
	base.Info(context.Background(), "hidden")
	assert.Empty(t, buf.String())
}
