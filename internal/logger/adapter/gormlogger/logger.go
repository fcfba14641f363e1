// Package gormlogger routes gorm statements through the global zerolog logger.
package gormlogger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

// DefaultSlowThreshold marks queries slower than this as warnings.
const DefaultSlowThreshold = time.Second

// Logger implements gorm's logger.Interface on top of zerolog.
type Logger struct {
	Level         glogger.LogLevel
	SlowThreshold time.Duration
	// ignore gorm.ErrRecordNotFound, controllers translate it into their own errors
	IgnoreRecordNotFoundError bool
}

// New returns a warn level logger ignoring not found errors.
func New() *Logger {
	return &Logger{
		Level:                     glogger.Warn,
		SlowThreshold:             DefaultSlowThreshold,
		IgnoreRecordNotFoundError: true,
	}
}

// LogMode implements glogger.Interface.
func (l *Logger) LogMode(level glogger.LogLevel) glogger.Interface {
	n := *l
	n.Level = level

	return &n
}

// Info implements glogger.Interface.
func (l *Logger) Info(_ context.Context, msg string, args ...interface{}) {
	if l.Level >= glogger.Info {
		log.Info().Str("component", "gorm").Msg(fmt.Sprintf(msg, args...))
	}
}

// Warn implements glogger.Interface.
func (l *Logger) Warn(_ context.Context, msg string, args ...interface{}) {
	if l.Level >= glogger.Warn {
		log.Warn().Str("component", "gorm").Msg(fmt.Sprintf(msg, args...))
	}
}

// Error implements glogger.Interface.
func (l *Logger) Error(_ context.Context, msg string, args ...interface{}) {
	if l.Level >= glogger.Error {
		log.Error().Str("component", "gorm").Msg(fmt.Sprintf(msg, args...))
	}
}

// Trace implements glogger.Interface.
func (l *Logger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.Level <= glogger.Silent {
		return
	}

	elapsed := time.Since(begin)

	var event *zerolog.Event

	switch {
	case err != nil && l.Level >= glogger.Error &&
		(!errors.Is(err, gorm.ErrRecordNotFound) || !l.IgnoreRecordNotFoundError):
		event = log.Error().Err(err)
	case l.SlowThreshold != 0 && elapsed > l.SlowThreshold && l.Level >= glogger.Warn:
		event = log.Warn().Dur("threshold", l.SlowThreshold)
	case l.Level >= glogger.Info:
		event = log.Debug()
	default:
		return
	}

	sql, rows := fc()

	event.Str("component", "gorm").
		Dur("elapsed", elapsed).
		Int64("rows", rows).
		Str("sql", sql).
		Msg("gorm query")
}
