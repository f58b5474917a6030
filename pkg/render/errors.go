package render

import "errors"

var (
	// ErrImageTooSmall is returned when the requested size or its margins
	// leave no pixels to render into.
	ErrImageTooSmall = errors.New("image is too small")

	// ErrNoBoundsFound is returned when no eligible renderer contributes
	// to the object's bounds.
	ErrNoBoundsFound = errors.New("no bounds found on object")

	// ErrInvalidBounds is returned when the camera framing is degenerate.
	ErrInvalidBounds = errors.New("failed to detect valid object bounds")

	// ErrBatchAborted marks requests left unprocessed by a batch failure.
	ErrBatchAborted = errors.New("render batch aborted")
)

// HookError wraps a failure of a request's BeforeRender hook.
type HookError struct {
	Err error
}

func (e *HookError) Error() string {
	return "before-render hook: " + e.Err.Error()
}

func (e *HookError) Unwrap() error {
	return e.Err
}
