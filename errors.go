package platter

import (
	"fmt"

	"github.com/pkg/errors"
)

// PathError wraps an I/O failure with the path that triggered it. It is
// the only error type this package surfaces to callers through Next;
// errors that only degrade an optimization (extent lookups, prefetch
// hints) never reach the caller — they are logged at debug level and
// swallowed, per spec.md's error-propagation policy.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("platter: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

func wrapPath(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &PathError{Op: op, Path: path, Err: errors.WithStack(err)}
}
