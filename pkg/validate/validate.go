// Package validate implements the shared tri-state validation contract used
// by every validator in the satchel core: a failure either raises an error,
// is logged at a configurable level, or is silently reported as false,
// depending on the caller's Policy.
// See docs/ARCHITECTURE.md § Validation Contract.
package validate

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ErrValidation is the sentinel wrapped by every raised validation failure.
var ErrValidation = errors.New("validation failed")

// Failure describes a single validation failure: the field that failed, the
// shape that was expected, and the value actually seen.
type Failure struct {
	Field    string
	Expected string
	Got      any
}

// Error formats the failure naming the field and the expected shape.
func (f *Failure) Error() string {
	return fmt.Sprintf("%s: expected %s, got %T", f.Field, f.Expected, f.Got)
}

// Policy controls how a validation failure surfaces. Raise returns the
// failure as an error; Log writes it to Logger at Level. With both false the
// failure is reported only through the boolean result.
type Policy struct {
	Raise  bool
	Log    bool
	Level  zapcore.Level
	Logger *zap.Logger
}

// DefaultPolicy raises on failure and logs at error level.
func DefaultPolicy() Policy {
	return Policy{Raise: true, Log: true, Level: zapcore.ErrorLevel}
}

// Quiet neither raises nor logs; failures surface only as a false result.
func Quiet() Policy {
	return Policy{}
}

// Report surfaces a failure according to the policy. It is the single
// branching point for the raise/log tri-state: every validator funnels its
// failures through here.
func (p Policy) Report(f *Failure) (bool, error) {
	if p.Log && p.Logger != nil {
		if ce := p.Logger.Check(p.Level, f.Error()); ce != nil {
			ce.Write(zap.String("field", f.Field), zap.String("expected", f.Expected))
		}
	}
	if p.Raise {
		return false, fmt.Errorf("%w: %s", ErrValidation, f.Error())
	}
	return false, nil
}

// NotNil checks that v exists. Runs before any type or shape check.
func NotNil(field string, v any, p Policy) (bool, error) {
	if v == nil {
		return p.Report(&Failure{Field: field, Expected: "a non-nil value", Got: v})
	}
	return true, nil
}

// NonEmptyString checks existence, then type, then shape: v must be a string
// and must not be empty. Checks short-circuit on first failure.
func NonEmptyString(field string, v any, p Policy) (bool, error) {
	if v == nil {
		return p.Report(&Failure{Field: field, Expected: "a non-empty string", Got: v})
	}
	s, ok := v.(string)
	if !ok {
		return p.Report(&Failure{Field: field, Expected: "a string", Got: v})
	}
	if s == "" {
		return p.Report(&Failure{Field: field, Expected: "a non-empty string", Got: v})
	}
	return true, nil
}

// Mapping checks that v is a plain string-keyed mapping. A nil v fails the
// existence check before the type check runs.
func Mapping(field string, v any, p Policy) (bool, error) {
	if v == nil {
		return p.Report(&Failure{Field: field, Expected: "a plain string-keyed mapping", Got: v})
	}
	if _, ok := v.(map[string]any); !ok {
		return p.Report(&Failure{Field: field, Expected: "a plain string-keyed mapping", Got: v})
	}
	return true, nil
}

// NonEmptyMapping checks existence, type, then shape: the mapping must hold
// at least one entry.
func NonEmptyMapping(field string, v any, p Policy) (bool, error) {
	if v == nil {
		return p.Report(&Failure{Field: field, Expected: "a non-empty mapping", Got: v})
	}
	m, ok := v.(map[string]any)
	if !ok {
		return p.Report(&Failure{Field: field, Expected: "a plain string-keyed mapping", Got: v})
	}
	if len(m) == 0 {
		return p.Report(&Failure{Field: field, Expected: "a non-empty mapping", Got: v})
	}
	return true, nil
}
