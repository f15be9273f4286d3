package ports

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ahrav/go-slueval/internal/domain"
)

// TestInputError verifies message formatting and unwrapping to the
// underlying filesystem error.
func TestInputError(t *testing.T) {
	err := NewInputError("gt.jsonl", "open", fs.ErrNotExist)

	assert.Equal(t, "input error: operation=open, path=gt.jsonl, err=file does not exist", err.Error())
	assert.Equal(t, "gt.jsonl", err.Path)
	assert.Equal(t, "open", err.Operation)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

// TestMetricsError tests the functionality of the MetricsError error type.
func TestMetricsError(t *testing.T) {
	err := NewMetricsError("records_skipped_total", "WriteToTextfile", errors.New("permission denied"))

	assert.Equal(t, "metrics error: operation=WriteToTextfile, metric=records_skipped_total, err=permission denied", err.Error())
	assert.Equal(t, "records_skipped_total", err.Metric)
	assert.Equal(t, "WriteToTextfile", err.Operation)
}

// TestConfigError verifies that the error message contains the relevant
// configuration key.
func TestConfigError(t *testing.T) {
	err := NewConfigError("normalization.numerals", ErrConfigNotFound)

	assert.Equal(t, "config error: key=normalization.numerals, err=configuration not found", err.Error())
	assert.Equal(t, "normalization.numerals", err.ConfigKey)
	assert.True(t, errors.Is(err, ErrConfigNotFound))
}

// TestCommonInfrastructureErrors tests that the common infrastructure errors are defined.
func TestCommonInfrastructureErrors(t *testing.T) {
	tests := []struct {
		err     error
		message string
	}{
		{ErrInputNotFound, "input file not found"},
		{ErrLineTooLong, "line exceeds maximum length"},
		{ErrConfigNotFound, "configuration not found"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.message, tt.err.Error())
		})
	}
}

// TestErrorUnwrapping tests that all custom error types in the package support unwrapping.
func TestErrorUnwrapping(t *testing.T) {
	baseErr := errors.New("underlying error")

	errorList := []interface {
		error
		Unwrap() error
	}{
		NewInputError("path", "op", baseErr),
		NewMetricsError("metric", "op", baseErr),
		NewConfigError("key", baseErr),
	}

	for _, err := range errorList {
		unwrapped := err.Unwrap()
		assert.Equal(t, baseErr, unwrapped, "%T should unwrap to base error", err)
		assert.True(t, errors.Is(err, baseErr), "%T should match base error with Is", err)
	}
}

// TestSkipSinkFunc verifies the function adapter forwards diagnostics.
func TestSkipSinkFunc(t *testing.T) {
	var got []int
	var sink SkipSink = SkipSinkFunc(func(s domain.Skip) { got = append(got, s.Line) })

	sink.Skip(domain.Skip{Line: 3})
	sink.Skip(domain.Skip{Line: 7})

	assert.Equal(t, []int{3, 7}, got)
}
