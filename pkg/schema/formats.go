package schema

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// formatValidator checks one string value against a named format.
type formatValidator func(value string) bool

// Format patterns follow the conventions the test data actually uses:
// usernames are 3-30 word characters, passwords need mixed case, a
// digit, and a special character at 8+ length.
var (
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern    = regexp.MustCompile(`^\+?[\d\s\-()]{10,}$`)
	urlPattern      = regexp.MustCompile(`^https?://[^\s/$.?#].[^\s]*$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]{3,30}$`)
)

// formatValidators maps a format name to its check. Unknown names are
// reported as warnings by the validator, not errors, so schema authors
// can annotate formats this package does not know about.
var formatValidators = map[string]formatValidator{
	"email":    func(v string) bool { return emailPattern.MatchString(v) },
	"phone":    func(v string) bool { return phonePattern.MatchString(v) },
	"url":      func(v string) bool { return urlPattern.MatchString(v) },
	"uuid":     validUUID,
	"date":     validDate,
	"datetime": validDateTime,
	"username": func(v string) bool { return usernamePattern.MatchString(v) },
	"password": validPassword,
}

func validUUID(v string) bool {
	// Require the canonical 8-4-4-4-12 form; uuid.Parse alone also
	// accepts braced and URN variants that test data never uses.
	if len(v) != 36 {
		return false
	}
	_, err := uuid.Parse(v)
	return err == nil
}

func validDate(v string) bool {
	_, err := time.Parse("2006-01-02", v)
	return err == nil
}

func validDateTime(v string) bool {
	_, err := time.Parse(time.RFC3339, v)
	return err == nil
}

// validPassword requires at least 8 characters with lower case, upper
// case, a digit, and one of @$!%*?&. Spelled out because Go's regexp
// has no lookahead.
func validPassword(v string) bool {
	if len(v) < 8 {
		return false
	}
	var lower, upper, digit, special bool
	for _, r := range v {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune("@$!%*?&", r):
			special = true
		default:
			// Characters outside the allowed alphabet fail the check.
			return false
		}
	}
	return lower && upper && digit && special
}

// KnownFormats returns the names of the built-in format validators.
func KnownFormats() []string {
	names := make([]string, 0, len(formatValidators))
	for name := range formatValidators {
		names = append(names, name)
	}
	return names
}
