package errors

import (
	"errors"
	"fmt"
)

// ConfigError represents a validation configuration problem, most commonly
// that no checker executable could be resolved from settings.
type ConfigError struct {
	Setting string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Setting != "" {
		return fmt.Sprintf("configuration error for '%s': %s", e.Setting, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// NewConfigError creates a new ConfigError
func NewConfigError(setting, message string) *ConfigError {
	return &ConfigError{
		Setting: setting,
		Message: message,
	}
}

// SpawnError represents a failure to start the external checker process.
// UserDefined records whether the executable came from user settings, which
// changes the user-facing message ("configured but wrong" vs "not installed").
type SpawnError struct {
	Executable  string
	UserDefined bool
	Cause       error
}

func (e *SpawnError) Error() string {
	if e.UserDefined {
		return fmt.Sprintf("cannot validate: configured checker '%s' failed to start: %v", e.Executable, e.Cause)
	}
	return fmt.Sprintf("cannot validate: checker '%s' not found: %v", e.Executable, e.Cause)
}

func (e *SpawnError) Unwrap() error {
	return e.Cause
}

// NewSpawnError creates a new SpawnError
func NewSpawnError(executable string, userDefined bool, cause error) *SpawnError {
	return &SpawnError{
		Executable:  executable,
		UserDefined: userDefined,
		Cause:       cause,
	}
}

// ProcessError represents a checker process that started but failed while
// running or streaming output.
type ProcessError struct {
	Executable string
	Stage      string // "run", "stdin", "stdout"
	Cause      error
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("checker process error (%s): %s - %v", e.Stage, e.Executable, e.Cause)
}

func (e *ProcessError) Unwrap() error {
	return e.Cause
}

// NewProcessError creates a new ProcessError
func NewProcessError(executable, stage string, cause error) *ProcessError {
	return &ProcessError{
		Executable: executable,
		Stage:      stage,
		Cause:      cause,
	}
}

// IsConfigError checks if the error is a configuration error
func IsConfigError(err error) bool {
	var target *ConfigError
	return errors.As(err, &target)
}

// IsSpawnError checks if the error is a spawn error
func IsSpawnError(err error) bool {
	var target *SpawnError
	return errors.As(err, &target)
}

// IsProcessError checks if the error is a process error
func IsProcessError(err error) bool {
	var target *ProcessError
	return errors.As(err, &target)
}

// WrapWithContext wraps an error with operation context for better messages
func WrapWithContext(operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", operation, err)
}
