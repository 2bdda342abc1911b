package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidDimension, "unknown label: %s", "banner")

	if err.Code != ErrCodeInvalidDimension {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidDimension)
	}
	if err.Message != "unknown label: banner" {
		t.Errorf("Message = %v, want %v", err.Message, "unknown label: banner")
	}

	expected := "INVALID_DIMENSION: unknown label: banner"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeCaptureFailed, cause, "rasterizing banner")

	if err.Code != ErrCodeCaptureFailed {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeCaptureFailed)
	}
	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"matching code", New(ErrCodeTargetMissing, "no surface"), ErrCodeTargetMissing, true},
		{"different code", New(ErrCodeTargetMissing, "no surface"), ErrCodeEmptyArtifact, false},
		{"wrapped matching", Wrap(ErrCodeImageLoad, errors.New("io"), "headshot"), ErrCodeImageLoad, true},
		{"plain error", errors.New("plain"), ErrCodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeEmptyArtifact, "zero bytes")); got != ErrCodeEmptyArtifact {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeEmptyArtifact)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeCaptureFailed, "image source is tainted")
	if got := UserMessage(err); got != "image source is tainted" {
		t.Errorf("UserMessage() = %q", got)
	}
	plain := errors.New("boom")
	if got := UserMessage(plain); got != "boom" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}

func TestGuidance(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"capture failed", New(ErrCodeCaptureFailed, "tainted"), "one or more images could not be read; re-upload your images and try again"},
		{"image load", New(ErrCodeImageLoad, "timeout"), "one or more images could not be read; re-upload your images and try again"},
		{"sync timeout", New(ErrCodeSyncTimeout, "fonts"), "a resource was slow to load; wait a few seconds and try again"},
		{"target missing", New(ErrCodeTargetMissing, "no anchor"), "the preview has not been rendered yet; render the banner before exporting"},
		{"in flight", New(ErrCodeExportInFlight, "busy"), "an export is already running; wait for it to finish"},
		{"generic", New(ErrCodeInternal, "oops"), "try the export again"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Guidance(tt.err); got != tt.want {
				t.Errorf("Guidance() = %q, want %q", got, tt.want)
			}
		})
	}
}
