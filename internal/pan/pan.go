// Package pan validates permanent account numbers and reads the holder's
// entity type out of them.
package pan

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var (
	// ErrInvalidFormat is returned when a code is not 5 letters, 4 digits and 1 letter.
	ErrInvalidFormat = errors.New("invalid PAN format")
	// ErrTooShort is returned by Classify when the entity position does not exist.
	ErrTooShort = errors.New("PAN too short to classify")
)

// entityIndex is the zero-based position of the holder-type character.
const entityIndex = 3

var formatRe = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)

// PAN is a validated, upper-cased identifier together with its entity type.
type PAN struct {
	Code   string     `json:"pan"`
	Entity EntityType `json:"entity"`
}

// ValidateFormat reports whether code matches the fixed PAN layout, ignoring case.
func ValidateFormat(code string) bool {
	return formatRe.MatchString(strings.ToUpper(code))
}

// Classify reads the entity type from the fourth character (not byte) of code.
// It does not check the rest of the format; call ValidateFormat (or Parse) first.
func Classify(code string) (EntityType, error) {
	runes := []rune(code)
	if len(runes) <= entityIndex {
		return Other, fmt.Errorf("%w: %q", ErrTooShort, code)
	}
	switch unicode.ToUpper(runes[entityIndex]) {
	case 'P':
		return Individual, nil
	case 'C':
		return Company, nil
	default:
		return Other, nil
	}
}

// Parse normalizes code, checks its format and classifies it.
func Parse(code string) (PAN, error) {
	normalized := Normalize(code)
	if !ValidateFormat(normalized) {
		return PAN{}, fmt.Errorf("%w: %q", ErrInvalidFormat, code)
	}
	entity, err := Classify(normalized)
	if err != nil {
		return PAN{}, err
	}
	return PAN{Code: normalized, Entity: entity}, nil
}

// Normalize trims surrounding whitespace and upper-cases code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
