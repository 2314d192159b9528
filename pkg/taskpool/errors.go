package taskpool

import (
	"errors"
	"fmt"
)

// ErrPoolClosed is returned by every dispatch call made after Close began.
var ErrPoolClosed = errors.New("task pool already closed")

func IsPoolClosedError(err error) bool {
	return errors.Is(err, ErrPoolClosed)
}

// InvalidTaskError is returned when a supplied task (or gate, future or
// callback) is nil. Index is the position in the batch, 0 for single calls.
type InvalidTaskError struct {
	Index int
}

func (e *InvalidTaskError) Error() string {
	return fmt.Sprintf("task %d has no target function", e.Index)
}

func NewInvalidTaskError(index int) error {
	return &InvalidTaskError{Index: index}
}

func IsInvalidTaskError(err error) bool {
	var e *InvalidTaskError
	return errors.As(err, &e)
}

// PanicError carries a panic recovered while running a value task.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task panicked: %v", e.Value)
}

// Unwrap exposes the panic value when it was an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

func NewPanicError(value any, stack []byte) error {
	return &PanicError{Value: value, Stack: stack}
}

func IsPanicError(err error) bool {
	var e *PanicError
	return errors.As(err, &e)
}

// TaskFailedError wraps the error of one task of a synchronous batch.
type TaskFailedError struct {
	Index int
	Err   error
}

func (e *TaskFailedError) Error() string {
	return fmt.Sprintf("task %d failed: %v", e.Index, e.Err)
}

func (e *TaskFailedError) Unwrap() error {
	return e.Err
}

func NewTaskFailedError(index int, err error) error {
	return &TaskFailedError{Index: index, Err: err}
}

// GetTaskIndex returns the batch index carried by err, if any.
func GetTaskIndex(err error) (int, bool) {
	var failed *TaskFailedError
	if errors.As(err, &failed) {
		return failed.Index, true
	}
	var invalid *InvalidTaskError
	if errors.As(err, &invalid) {
		return invalid.Index, true
	}
	return 0, false
}
