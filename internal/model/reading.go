package model

import (
	"errors"
	"math"
)

// Status explains whether a Reading carries a usable number.
type Status int

const (
	StatusOK Status = iota
	StatusInsufficientHistory
	StatusMissingField
	StatusIndeterminate
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusInsufficientHistory:
		return "insufficient_history"
	case StatusMissingField:
		return "missing_field"
	case StatusIndeterminate:
		return "indeterminate"
	default:
		return "unknown"
	}
}

// Reading is a single numeric result that may be absent or indeterminate.
// Value is only meaningful when Status is StatusOK.
type Reading struct {
	Value  float64
	Status Status
}

// Known wraps v. Non-finite values become indeterminate.
func Known(v float64) Reading {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Indeterminate()
	}
	return Reading{Value: v, Status: StatusOK}
}

func Insufficient() Reading  { return Reading{Value: math.NaN(), Status: StatusInsufficientHistory} }
func Missing() Reading       { return Reading{Value: math.NaN(), Status: StatusMissingField} }
func Indeterminate() Reading { return Reading{Value: math.NaN(), Status: StatusIndeterminate} }

// FromPtr returns Missing for nil, otherwise Known(*v).
func FromPtr(v *float64) Reading {
	if v == nil {
		return Missing()
	}
	return Known(*v)
}

// FromResult maps a calculator (value, error) pair onto a Reading.
func FromResult(v float64, err error) Reading {
	switch {
	case err == nil:
		return Known(v)
	case errors.Is(err, ErrInsufficientHistory):
		return Insufficient()
	case errors.Is(err, ErrMissingField):
		return Missing()
	default:
		return Indeterminate()
	}
}

// OK reports whether the reading holds a finite value.
func (r Reading) OK() bool { return r.Status == StatusOK }

// Map applies f to a usable value and leaves absent readings untouched.
func (r Reading) Map(f func(float64) float64) Reading {
	if !r.OK() {
		return r
	}
	return Known(f(r.Value))
}
