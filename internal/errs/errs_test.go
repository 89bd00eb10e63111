package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind     ErrorKind
		expected string
	}{
		{KindConfig, "Configuration error"},
		{KindFormat, "Format error"},
		{KindIO, "I/O error"},
		{KindDecode, "Decode error"},
		{KindCommand, "Command error"},
		{KindFFprobeParse, "FFprobe parse error"},
		{KindNoFilesFound, "No files found"},
		{KindCancelled, "Operation cancelled"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.expected {
				t.Errorf("ErrorKind.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCoreErrorError(t *testing.T) {
	underlying := errors.New("underlying error")
	err := &CoreError{
		Kind:       KindIO,
		Message:    "test message",
		Underlying: underlying,
	}

	got := err.Error()
	expected := "I/O error: test message: underlying error"
	if got != expected {
		t.Errorf("CoreError.Error() = %v, want %v", got, expected)
	}

	err2 := &CoreError{
		Kind:    KindConfig,
		Message: "inverted window",
	}

	got2 := err2.Error()
	expected2 := "Configuration error: inverted window"
	if got2 != expected2 {
		t.Errorf("CoreError.Error() = %v, want %v", got2, expected2)
	}
}

func TestCoreErrorUnwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	err := NewIOError("test", underlying)

	if !errors.Is(err, underlying) {
		t.Error("errors.Is should match the underlying error")
	}
	if got := errors.Unwrap(err); got != underlying {
		t.Errorf("Unwrap() = %v, want %v", got, underlying)
	}
}

func TestCoreErrorIs(t *testing.T) {
	err := NewConfigError("bad frame rate")

	if !errors.Is(err, &CoreError{Kind: KindConfig}) {
		t.Error("errors.Is should match same kind")
	}
	if errors.Is(err, &CoreError{Kind: KindIO}) {
		t.Error("errors.Is should not match a different kind")
	}
}

func TestIsKind(t *testing.T) {
	err := NewFormatError("bad timecode")
	wrapped := fmt.Errorf("parsing start: %w", err)

	if !IsKind(wrapped, KindFormat) {
		t.Error("IsKind should see through fmt.Errorf wrapping")
	}
	if IsKind(wrapped, KindConfig) {
		t.Error("IsKind matched the wrong kind")
	}
	if IsKind(errors.New("plain"), KindFormat) {
		t.Error("IsKind matched a plain error")
	}
	if IsKind(nil, KindFormat) {
		t.Error("IsKind matched nil")
	}
}

func TestCommandError(t *testing.T) {
	err := NewCommandFailedError("ffmpeg", 1, "no such file")

	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatal("errors.As should find the CommandError")
	}
	if cmdErr.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", cmdErr.ExitCode)
	}
	want := "command ffmpeg failed with exit code 1: no such file"
	if got := cmdErr.Error(); got != want {
		t.Errorf("CommandError.Error() = %q, want %q", got, want)
	}
	if !IsKind(err, KindCommand) {
		t.Error("command failure should have kind KindCommand")
	}
}
