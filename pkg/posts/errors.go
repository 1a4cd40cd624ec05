package posts

import "fmt"

// ErrorKind classifies service failures.
type ErrorKind string

const (
	// KindPersistenceFailed covers every storage failure, decode errors included.
	KindPersistenceFailed ErrorKind = "persistence failed"
)

// Error is returned by every Service operation that fails.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

// ErrPersistenceFailed matches any *Error of kind KindPersistenceFailed via errors.Is.
var ErrPersistenceFailed = &Error{Kind: KindPersistenceFailed}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is compares by kind so callers can test against ErrPersistenceFailed.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}
