// Package plate canonicalizes license plates. Every plate stored or matched
// anywhere in the system goes through Normalize first, so "ab 123" and
// "AB-123" resolve to the same vehicle.
package plate

import (
	"errors"
	"regexp"
	"strings"
)

var ErrInvalidPlate = errors.New("invalid license plate")

var validPlate = regexp.MustCompile(`^[A-Z0-9]{2,8}$`)

// Normalize strips separators and whitespace and uppercases the rest.
func Normalize(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(raw) {
		switch r {
		case ' ', '-', '.', '_':
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeAndValidate returns the canonical form or ErrInvalidPlate when the
// canonical form is not 2-8 alphanumeric characters.
func NormalizeAndValidate(raw string) (string, error) {
	normalized := Normalize(raw)
	if !validPlate.MatchString(normalized) {
		return "", ErrInvalidPlate
	}
	return normalized, nil
}
