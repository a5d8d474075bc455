package toonify

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is.
var (
	ErrImageLoad     = errors.New("image load error")
	ErrInvalidConfig = errors.New("invalid config")
	ErrImageWrite    = errors.New("image write error")
	ErrProcessing    = errors.New("processing error")
)

// StageError records which stage failed, the error kind and the cause.
type StageError struct {
	Stage string
	Kind  error
	Err   error
}

func (e *StageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v: %s", e.Kind, e.Stage)
	}
	return fmt.Sprintf("%v: %s: %v", e.Kind, e.Stage, e.Err)
}

func (e *StageError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func stageErr(kind error, stage string, err error) error {
	return &StageError{Stage: stage, Kind: kind, Err: err}
}

func stageErrf(kind error, stage, format string, args ...any) error {
	return &StageError{Stage: stage, Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the error kind carried by err, or nil if err is not a
// pipeline error.
func KindOf(err error) error {
	for _, k := range []error{ErrImageLoad, ErrInvalidConfig, ErrImageWrite, ErrProcessing} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
