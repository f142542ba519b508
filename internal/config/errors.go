package config

import (
	"errors"
	"fmt"
)

var (
	// ErrSettingNotFound indicates the setting path is not set in any layer.
	ErrSettingNotFound = errors.New("setting not found")

	// ErrTypeMismatch indicates the value has the wrong type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrInvalidPath indicates an empty or malformed setting path.
	ErrInvalidPath = errors.New("invalid setting path")
)

// TypeError is returned when a setting cannot be converted.
type TypeError struct {
	Path     string
	Expected string
	Actual   string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("type error for %s: expected %s, got %s", e.Path, e.Expected, e.Actual)
}

// Is matches ErrTypeMismatch.
func (e *TypeError) Is(target error) bool {
	return target == ErrTypeMismatch
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}
