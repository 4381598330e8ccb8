package recurrence

import (
	"errors"
	"fmt"
)

// Kind classifies expansion failures.
type Kind string

const (
	KindInvalidArgument Kind = "invalid_argument"
	KindInvalidDate     Kind = "invalid_date"
	KindInvalidRange    Kind = "invalid_range"
	KindUnsupportedType Kind = "unsupported_type"
)

// Error represents an expansion failure.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind carried by err, or "" if err is not an expansion
// error. Callers use it to map failures onto their own error surface.
func KindOf(err error) Kind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return ""
}
