package progression

import (
	"errors"
	"fmt"
)

var ErrInvalidRange = errors.New("invalid session range")

// SourceError wraps a failure raised by the session source mid-stream.
// The window that was being built when it happened is never emitted.
type SourceError struct {
	Err error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("session source: %s", e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

func IsSourceError(err error) bool {
	var srcErr *SourceError
	return errors.As(err, &srcErr)
}
