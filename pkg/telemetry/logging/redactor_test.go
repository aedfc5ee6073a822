package logging

import (
	"testing"
)

func TestRedactArgs(t *testing.T) {
	r := NewRedactor(nil)

	args := r.RedactArgs(
		"username", "alice",
		"password", "Secur3P@ss",
		"api_key", "sk-1234567890",
		"count", 3,
	)

	if args[1] != "alice" {
		t.Errorf("username = %v, want untouched", args[1])
	}
	if args[3] != "Secu***" {
		t.Errorf("password = %v, want %q", args[3], "Secu***")
	}
	if args[5] != "sk-1***" {
		t.Errorf("api_key = %v, want %q", args[5], "sk-1***")
	}
	if args[7] != 3 {
		t.Errorf("count = %v, want untouched", args[7])
	}
}

func TestRedactArgs_KeyMatchingIsCaseInsensitiveSubstring(t *testing.T) {
	r := NewRedactor(nil)

	args := r.RedactArgs("DB_Password", "hunter22", "AuthToken", "tok_abc123")

	if args[1] == "hunter22" {
		t.Errorf("DB_Password = %v, want masked", args[1])
	}
	if args[3] == "tok_abc123" {
		t.Errorf("AuthToken = %v, want masked", args[3])
	}
}

func TestRedactArgs_NonStringSensitiveValue(t *testing.T) {
	r := NewRedactor(nil)

	args := r.RedactArgs("secret", 12345)

	if args[1] != "***" {
		t.Errorf("non-string secret = %v, want %q", args[1], "***")
	}
}

func TestRedactArgs_ShortAndEmptyValues(t *testing.T) {
	r := NewRedactor(nil)

	args := r.RedactArgs("password", "abc", "token", "")

	if args[1] != "***" {
		t.Errorf("short password = %v, want %q (no prefix hint)", args[1], "***")
	}
	if args[3] != "" {
		t.Errorf("empty token = %v, want empty", args[3])
	}
}

func TestRedactArgs_ExtraFields(t *testing.T) {
	r := NewRedactor([]string{"pin_code", ""})

	args := r.RedactArgs("pin_code", "990022", "username", "alice")

	if args[1] == "990022" {
		t.Errorf("pin_code = %v, want masked", args[1])
	}
	if args[3] != "alice" {
		t.Errorf("username = %v, want untouched", args[3])
	}
}

func TestRedactEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"alice@example.com", "a***@example.com"},
		{"@example.com", "***@example.com"},
		{"not-an-email", "not-an-email"},
	}
	for _, tt := range tests {
		if got := RedactEmail(tt.in); got != tt.want {
			t.Errorf("RedactEmail(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
