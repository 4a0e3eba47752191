package model

import "errors"

var (
	// ErrDataUnavailable means no price history exists for the instrument. It is the only fatal panel error.
	ErrDataUnavailable = errors.New("price data unavailable")
	// ErrUnorderedSeries means bars are duplicated or not in chronological order.
	ErrUnorderedSeries = errors.New("price series not strictly increasing")
	// ErrInsufficientHistory means a computation needs more bars than were supplied.
	ErrInsufficientHistory = errors.New("insufficient history")
	// ErrIndeterminate means a ratio had a zero or non-finite denominator.
	ErrIndeterminate = errors.New("indeterminate value")
	// ErrMissingField means the provider omitted a fundamental metric.
	ErrMissingField = errors.New("field not provided")
)
