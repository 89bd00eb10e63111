// Package errs provides structured error types for shotseek operations.
package errs

import (
	"fmt"
)

// ErrorKind represents the category of an error.
type ErrorKind int

const (
	// KindConfig represents invalid parameter combinations.
	KindConfig ErrorKind = iota
	// KindFormat represents unparseable timecode strings.
	KindFormat
	// KindIO represents open/seek/encode I/O errors.
	KindIO
	// KindDecode represents frame decode failures.
	KindDecode
	// KindCommand represents external command execution errors.
	KindCommand
	// KindFFprobeParse represents ffprobe output parsing errors.
	KindFFprobeParse
	// KindNoFilesFound represents no suitable video files found.
	KindNoFilesFound
	// KindCancelled represents caller-cancelled operations.
	KindCancelled
)

// String returns a string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "Configuration error"
	case KindFormat:
		return "Format error"
	case KindIO:
		return "I/O error"
	case KindDecode:
		return "Decode error"
	case KindCommand:
		return "Command error"
	case KindFFprobeParse:
		return "FFprobe parse error"
	case KindNoFilesFound:
		return "No files found"
	case KindCancelled:
		return "Operation cancelled"
	default:
		return "Unknown error"
	}
}

// CoreError is the main error type for shotseek operations.
type CoreError struct {
	Kind       ErrorKind
	Message    string
	Underlying error
}

func (e *CoreError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *CoreError) Unwrap() error {
	return e.Underlying
}

// Is reports whether target matches this error's kind.
func (e *CoreError) Is(target error) bool {
	t, ok := target.(*CoreError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// IsKind reports whether any error in err's tree is a CoreError of the
// given kind. Joined errors are searched in order.
func IsKind(err error, kind ErrorKind) bool {
	if err == nil {
		return false
	}
	if ce, ok := err.(*CoreError); ok && ce.Kind == kind {
		return true
	}
	switch u := err.(type) {
	case interface{ Unwrap() error }:
		return IsKind(u.Unwrap(), kind)
	case interface{ Unwrap() []error }:
		for _, e := range u.Unwrap() {
			if IsKind(e, kind) {
				return true
			}
		}
	}
	return false
}

// NewConfigError creates an error for an invalid parameter combination.
func NewConfigError(message string) *CoreError {
	return &CoreError{Kind: KindConfig, Message: message}
}

// NewConfigErrorf creates a config error with a formatted message.
func NewConfigErrorf(format string, args ...any) *CoreError {
	return &CoreError{Kind: KindConfig, Message: fmt.Sprintf(format, args...)}
}

// NewFormatError creates an error for an unparseable timecode string.
func NewFormatError(message string) *CoreError {
	return &CoreError{Kind: KindFormat, Message: message}
}

// NewFormatErrorf creates a format error with a formatted message.
func NewFormatErrorf(format string, args ...any) *CoreError {
	return &CoreError{Kind: KindFormat, Message: fmt.Sprintf(format, args...)}
}

// NewIOError creates a new I/O error.
func NewIOError(message string, underlying error) *CoreError {
	return &CoreError{Kind: KindIO, Message: message, Underlying: underlying}
}

// NewDecodeError creates a new frame decode error.
func NewDecodeError(message string, underlying error) *CoreError {
	return &CoreError{Kind: KindDecode, Message: message, Underlying: underlying}
}

// NewFFprobeParseError creates a new ffprobe parsing error.
func NewFFprobeParseError(message string) *CoreError {
	return &CoreError{Kind: KindFFprobeParse, Message: message}
}

// NewNoFilesFoundError creates an error for when no video files are found.
func NewNoFilesFoundError(dir string) *CoreError {
	return &CoreError{Kind: KindNoFilesFound, Message: fmt.Sprintf("no video files found in %s", dir)}
}

// NewCancelledError creates an error for a cancelled operation.
func NewCancelledError(underlying error) *CoreError {
	return &CoreError{Kind: KindCancelled, Message: "detection cancelled", Underlying: underlying}
}

// CommandErrorKind represents the type of command error.
type CommandErrorKind int

const (
	// CommandStart means the command failed to start.
	CommandStart CommandErrorKind = iota
	// CommandWait means waiting for the command failed.
	CommandWait
	// CommandFailed means the command returned non-zero exit status.
	CommandFailed
)

// CommandError represents an error from executing an external command.
type CommandError struct {
	Command    string
	Kind       CommandErrorKind
	ExitCode   int
	Stderr     string
	Underlying error
}

func (e *CommandError) Error() string {
	switch e.Kind {
	case CommandStart:
		return fmt.Sprintf("failed to execute %s: %v", e.Command, e.Underlying)
	case CommandWait:
		return fmt.Sprintf("failed to wait for %s: %v", e.Command, e.Underlying)
	case CommandFailed:
		if e.Stderr != "" {
			return fmt.Sprintf("command %s failed with exit code %d: %s", e.Command, e.ExitCode, e.Stderr)
		}
		return fmt.Sprintf("command %s failed with exit code %d", e.Command, e.ExitCode)
	default:
		return fmt.Sprintf("command %s error: %v", e.Command, e.Underlying)
	}
}

func (e *CommandError) Unwrap() error {
	return e.Underlying
}

// NewCommandStartError creates an error for when a command fails to start.
func NewCommandStartError(cmd string, err error) *CoreError {
	cmdErr := &CommandError{Command: cmd, Kind: CommandStart, Underlying: err}
	return &CoreError{Kind: KindCommand, Message: cmdErr.Error(), Underlying: cmdErr}
}

// NewCommandFailedError creates an error for when a command returns non-zero exit status.
func NewCommandFailedError(cmd string, exitCode int, stderr string) *CoreError {
	cmdErr := &CommandError{Command: cmd, Kind: CommandFailed, ExitCode: exitCode, Stderr: stderr}
	return &CoreError{Kind: KindCommand, Message: cmdErr.Error(), Underlying: cmdErr}
}
