package amiga

import (
	"errors"
	"testing"
)

func TestConfigErrorWrapsSentinel(t *testing.T) {
	err := &ConfigError{Option: "chipRAM", Err: ErrChipRAMTooLarge}
	if !errors.Is(err, ErrChipRAMTooLarge) {
		t.Fatalf("expected errors.Is to find the wrapped sentinel")
	}
	if err.Error() == "" {
		t.Fatalf("expected non-empty error message")
	}
}

func TestMediaErrorWrapsSentinel(t *testing.T) {
	err := &MediaError{Path: "disk.adf", Err: ErrUnsupportedDensity}
	if !errors.Is(err, ErrUnsupportedDensity) {
		t.Fatalf("expected errors.Is to find the wrapped sentinel")
	}
}
