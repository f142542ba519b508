package app

import (
	"errors"
	"strings"
)

var (
	// ErrQuit ends Run without an error.
	ErrQuit = errors.New("quit requested")

	// ErrAlreadyRunning is returned by a second concurrent Run.
	ErrAlreadyRunning = errors.New("application already running")

	// ErrNoDocument is returned by New without a document path.
	ErrNoDocument = errors.New("no document")
)

// OperationError ties a failure to the user-visible operation and the file
// or value it acted on.
type OperationError struct {
	Op     string
	Target string
	Err    error
}

// NewOperationError wraps err for op on target. Target may be empty.
func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{Op: op, Target: target, Err: err}
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}
	return joinError(strings.TrimSpace(e.Op+" "+e.Target), e.Err)
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ComponentError reports a failure inside one of the wired components,
// such as the backend or the watcher.
type ComponentError struct {
	Component string
	Action    string
	Err       error
}

// NewComponentError wraps err for action on component. Action may be empty.
func NewComponentError(component, action string, err error) *ComponentError {
	return &ComponentError{Component: component, Action: action, Err: err}
}

func (e *ComponentError) Error() string {
	if e == nil {
		return ""
	}
	prefix := e.Component
	if e.Action != "" {
		prefix += ": " + e.Action
	}
	return joinError(prefix, e.Err)
}

func (e *ComponentError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func joinError(prefix string, err error) string {
	if err == nil {
		return prefix
	}
	return prefix + ": " + err.Error()
}
