package normalize

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultNumerals maps the eleven CJK numeral characters to ASCII digits.
// Substitution is per character: "十三" becomes "十3", not "13".
func DefaultNumerals() map[string]string {
	return map[string]string{
		"零": "0", "一": "1", "二": "2", "三": "3", "四": "4",
		"五": "5", "六": "6", "七": "7", "八": "8", "九": "9",
		"两": "2",
	}
}

// TextConfig controls the text normalization pipeline.
type TextConfig struct {
	// Lowercase applies Unicode lower-casing. Scripts without case, such
	// as CJK, pass through unchanged.
	Lowercase bool `yaml:"lowercase" json:"lowercase"`

	// Numerals maps single characters to single ASCII digits.
	Numerals map[string]string `yaml:"numerals" json:"numerals" validate:"dive,keys,len=1,endkeys,len=1,numeric"`
}

// DefaultTextConfig returns the pipeline used for scoring: lower-casing on
// and the CJK numeral table.
func DefaultTextConfig() TextConfig {
	return TextConfig{
		Lowercase: true,
		Numerals:  DefaultNumerals(),
	}
}

// TextNormalizer canonicalizes a single string. The pipeline always runs
// in this order:
//
//  1. lower-case (when enabled)
//  2. per-character numeral substitution
//  3. removal of every rune that is not a letter, number, '_' or whitespace
//  4. trimming of leading and trailing whitespace
//
// Internal whitespace is preserved. Normalize is idempotent.
//
// TextNormalizer is immutable after construction and safe for concurrent use.
type TextNormalizer struct {
	config   TextConfig
	numerals map[rune]rune
}

// NewTextNormalizer validates config and builds a TextNormalizer.
func NewTextNormalizer(config TextConfig) (*TextNormalizer, error) {
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	numerals := make(map[rune]rune, len(config.Numerals))
	for k, v := range config.Numerals {
		numerals[[]rune(k)[0]] = []rune(v)[0]
	}
	return &TextNormalizer{config: config, numerals: numerals}, nil
}

// Normalize returns the canonical form of text.
func (n *TextNormalizer) Normalize(text string) string {
	if n.config.Lowercase {
		text = cases.Lower(language.Und).String(text)
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if d, ok := n.numerals[r]; ok {
			r = d
		}
		if keepRune(r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimFunc(b.String(), isSpace)
}

// NormalizeValue stringifies v and normalizes the result. Strings are used
// as is; every other value is formatted with fmt.Sprint.
func (n *TextNormalizer) NormalizeValue(v any) string {
	switch t := v.(type) {
	case string:
		return n.Normalize(t)
	case nil:
		return ""
	default:
		return n.Normalize(fmt.Sprint(t))
	}
}

// keepRune matches word characters of any script plus whitespace.
func keepRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r) || isSpace(r)
}

// isSpace extends unicode.IsSpace with the ASCII information separators
// U+001C..U+001F, which are whitespace for text segmentation purposes.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}
