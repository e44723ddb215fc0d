package api

import (
	"errors"
	"fmt"
)

var (
	ErrNetwork        = errors.New("network error")
	ErrUpstreamStatus = errors.New("upstream status error")
	ErrDecode         = errors.New("decode error")
)

// Error is returned for every failed lounge request. Kind is one of the
// sentinels above and is matched by errors.Is.
type Error struct {
	Kind   error
	Status int
	Body   string
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrNetwork:
		return fmt.Sprintf("Network error: %v", e.Err)
	case ErrUpstreamStatus:
		return fmt.Sprintf("API error %d: %s", e.Status, e.Body)
	case ErrDecode:
		return fmt.Sprintf("JSON parse error: %v", e.Err)
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func (e *Error) Unwrap() error {
	return e.Err
}
