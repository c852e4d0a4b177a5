package stage

import (
	"errors"
	"fmt"
)

// ErrUnready is returned when the stage is not realized or has zero size.
// It is recoverable: retry after Realize.
var ErrUnready = errors.New("stage: not ready")

// ErrBackendFailure matches any BackendError with errors.Is.
var ErrBackendFailure = errors.New("stage: backend failure")

// BackendError reports a failed backend operation such as creating an
// off-screen target or reading back a pixel.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("stage: backend %s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// Is makes every BackendError match ErrBackendFailure.
func (e *BackendError) Is(target error) bool {
	return target == ErrBackendFailure
}

func backendError(op string, err error) error {
	if err == nil {
		return nil
	}
	var be *BackendError
	if errors.As(err, &be) {
		return err
	}
	return &BackendError{Op: op, Err: err}
}
