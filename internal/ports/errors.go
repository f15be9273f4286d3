package ports

import (
	"errors"
	"fmt"
)

// Common infrastructure errors that can occur at the file boundary.
var (
	// ErrInputNotFound indicates that an input file does not exist.
	ErrInputNotFound = errors.New("input file not found")

	// ErrLineTooLong indicates that a JSONL line exceeded the reader's
	// buffer limit.
	ErrLineTooLong = errors.New("line exceeds maximum length")

	// ErrConfigNotFound indicates that required configuration is missing.
	ErrConfigNotFound = errors.New("configuration not found")
)

// InputError represents a fatal failure reading or writing a whole file.
// Unlike domain.RecordError it aborts the run.
type InputError struct {
	// Path is the file that failed.
	Path string

	// Operation is what was being done: "open", "read", "write", "close".
	Operation string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface for InputError.
func (e *InputError) Error() string {
	return fmt.Sprintf("input error: operation=%s, path=%s, err=%v", e.Operation, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *InputError) Unwrap() error { return e.Err }

// NewInputError creates a new InputError with the given details.
func NewInputError(path, operation string, err error) *InputError {
	return &InputError{
		Path:      path,
		Operation: operation,
		Err:       err,
	}
}

// MetricsError represents an error from metrics collection operations.
type MetricsError struct {
	// Metric is the name of the metric that was being collected when the
	// error occurred.
	Metric string

	// Operation is the name of the metrics operation that failed.
	Operation string

	// Err is the underlying error that caused the metrics operation to fail.
	Err error
}

// Error implements the error interface for MetricsError.
func (e *MetricsError) Error() string {
	return fmt.Sprintf("metrics error: operation=%s, metric=%s, err=%v", e.Operation, e.Metric, e.Err)
}

// Unwrap returns the underlying error.
func (e *MetricsError) Unwrap() error { return e.Err }

// NewMetricsError creates a new MetricsError with the given details.
func NewMetricsError(metric, operation string, err error) *MetricsError {
	return &MetricsError{
		Metric:    metric,
		Operation: operation,
		Err:       err,
	}
}

// ConfigError represents an error from configuration operations.
type ConfigError struct {
	// ConfigKey is the configuration key that was involved in the failed
	// operation.
	ConfigKey string

	// Err is the underlying error that caused the configuration operation
	// to fail.
	Err error
}

// Error implements the error interface for ConfigError.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: key=%s, err=%v", e.ConfigKey, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfigError creates a new ConfigError with the given details.
func NewConfigError(key string, err error) *ConfigError {
	return &ConfigError{
		ConfigKey: key,
		Err:       err,
	}
}
