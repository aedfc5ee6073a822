package cli

import (
	"errors"
	"io/fs"
	"testing"
)

func TestConfigError(t *testing.T) {
	err := &ConfigError{
		Field:   "data.base_dir",
		Message: "directory does not exist",
	}

	expected := "config error in data.base_dir: directory does not exist"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
	if err.Unwrap() != nil {
		t.Errorf("Unwrap() without cause = %v, want nil", err.Unwrap())
	}
}

func TestConfigErrorUnwrapsCause(t *testing.T) {
	err := &ConfigError{
		Field:   "config",
		Message: "config file not found",
		Cause:   fs.ErrNotExist,
	}

	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("errors.Is() does not reach the ConfigError cause")
	}
}

func TestNewConfigError(t *testing.T) {
	err := NewConfigError("journal.backend", "unknown backend")
	if err.Field != "journal.backend" {
		t.Errorf("Field = %q, want journal.backend", err.Field)
	}
	if err.Message != "unknown backend" {
		t.Errorf("Message = %q, want %q", err.Message, "unknown backend")
	}
}

func TestCommandError(t *testing.T) {
	cause := errors.New("2 dataset(s) failed validation")
	err := NewCommandError("validate", cause)

	expected := "command validate failed: 2 dataset(s) failed validation"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is() does not reach the CommandError cause")
	}
}

func TestCommandErrorWrapsConfigError(t *testing.T) {
	// A command failing on configuration keeps the field reachable
	// through the chain.
	cfgErr := NewConfigError("data.base_dir", "directory does not exist")
	err := NewCommandError("list", cfgErr)

	var unwrapped *ConfigError
	if !errors.As(err, &unwrapped) {
		t.Fatal("errors.As() does not find the wrapped ConfigError")
	}
	if unwrapped.Field != "data.base_dir" {
		t.Errorf("Field = %q, want data.base_dir", unwrapped.Field)
	}
}
