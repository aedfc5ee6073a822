package logging

import (
	"fmt"
	"strings"
)

// Redactor masks credential fields in log arguments. Test datasets are
// full of passwords, tokens, and API keys that must never land in log
// output verbatim; redaction keys off the field name, which is how
// credentials are addressed throughout the data layer.
type Redactor struct {
	sensitive map[string]bool
}

// builtinSensitiveKeys are field name fragments always treated as
// credentials, regardless of configuration.
var builtinSensitiveKeys = []string{
	"password", "passwd", "pwd",
	"secret", "token", "api_key", "apikey",
	"auth", "authorization",
	"credential", "private_key", "privatekey",
}

// NewRedactor creates a Redactor masking the built-in credential field
// names plus any extra names from configuration.
func NewRedactor(extraFields []string) *Redactor {
	r := &Redactor{sensitive: make(map[string]bool, len(builtinSensitiveKeys)+len(extraFields))}
	for _, key := range builtinSensitiveKeys {
		r.sensitive[key] = true
	}
	for _, key := range extraFields {
		if key != "" {
			r.sensitive[strings.ToLower(key)] = true
		}
	}
	return r
}

// RedactArgs masks the values of sensitive keys in variadic log
// arguments. Args are in the form: key1, value1, key2, value2, ...
func (r *Redactor) RedactArgs(args ...any) []any {
	if len(args) == 0 {
		return args
	}

	redacted := make([]any, len(args))
	copy(redacted, args)

	for i := 1; i < len(redacted); i += 2 {
		key, ok := redacted[i-1].(string)
		if ok && r.isSensitiveKey(key) {
			redacted[i] = r.redactValue(redacted[i])
		}
	}

	return redacted
}

// isSensitiveKey checks if a key name indicates sensitive data.
func (r *Redactor) isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)
	for sensitive := range r.sensitive {
		if strings.Contains(lowerKey, sensitive) {
			return true
		}
	}
	return false
}

// redactValue masks a sensitive value, keeping a short prefix of longer
// strings for debugging.
func (r *Redactor) redactValue(value any) any {
	switch v := value.(type) {
	case string:
		if v == "" {
			return ""
		}
		if len(v) <= 4 {
			return "***"
		}
		return v[:4] + "***"
	case fmt.Stringer:
		return "***"
	default:
		return "***"
	}
}

// RedactEmail redacts an email address partially (shows first char and domain).
func RedactEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}

	username := parts[0]
	domain := parts[1]

	if len(username) == 0 {
		return "***@" + domain
	}

	return string(username[0]) + "***@" + domain
}
