//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// ErrValidationFailed is returned when any check fails hard.
var ErrValidationFailed = errors.New("validation failed")

// Level is the outcome of a check.
type Level int

const (
	OK Level = iota
	Warn
	Fail
)

func (l Level) String() string {
	switch l {
	case OK:
		return "OK"
	case Warn:
		return "WARN"
	default:
		return "FAIL"
	}
}

// Finding is the outcome of one check.
type Finding struct {
	Level   Level
	Check   string
	Message string
}

// Report collects findings in check order.
type Report struct {
	Findings []Finding
	log      zerolog.Logger
}

func (r *Report) add(level Level, check, format string, args ...any) {
	f := Finding{Level: level, Check: check, Message: fmt.Sprintf(format, args...)}
	r.Findings = append(r.Findings, f)

	var ev *zerolog.Event
	switch level {
	case OK:
		ev = r.log.Info()
	case Warn:
		ev = r.log.Warn()
	default:
		ev = r.log.Error()
	}
	ev.Str("check", check).Str("result", level.String()).Msg(f.Message)
}

func (r *Report) ok(check, format string, args ...any) {
	r.add(OK, check, format, args...)
}

func (r *Report) warn(check, format string, args ...any) {
	r.add(Warn, check, format, args...)
}

func (r *Report) fail(check, format string, args ...any) {
	r.add(Fail, check, format, args...)
}

// Count returns the number of findings at level.
func (r *Report) Count(level Level) int {
	n := 0
	for _, f := range r.Findings {
		if f.Level == level {
			n++
		}
	}
	return n
}

// Failed reports whether any check failed.
func (r *Report) Failed() bool {
	return r.Count(Fail) > 0
}

// Err returns ErrValidationFailed wrapped with the failed checks, or nil.
func (r *Report) Err() error {
	var msgs []string
	for _, f := range r.Findings {
		if f.Level == Fail {
			msgs = append(msgs, f.Message)
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrValidationFailed, strings.Join(msgs, "; "))
}
