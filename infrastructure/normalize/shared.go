// Package normalize canonicalizes text and semantic frames before they are
// compared, so that case, CJK numerals and punctuation differences do not
// count as prediction errors.
package normalize

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// ErrNilTextNormalizer is returned when a semantics normalizer is built
// without a text normalizer.
var ErrNilTextNormalizer = errors.New("text normalizer cannot be nil")

// Package-level validator instance for configuration validation.
var validate = validator.New()
