package scheduling

import "errors"

var (
	ErrInvalidTimeFormat = errors.New("invalid time format")
	ErrInvalidDateFormat = errors.New("invalid date format")
	ErrInvalidDateRange  = errors.New("invalid date range")
)
