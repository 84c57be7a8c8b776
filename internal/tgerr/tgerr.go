// Package tgerr defines the error taxonomy shared across the tile engine.
package tgerr

import (
	"errors"
	"fmt"
)

// Kind classifies an error raised anywhere in the engine.
type Kind int

const (
	// ConfigError means a config file/path was missing or malformed.
	ConfigError Kind = iota
	// ArchiveError means a tar archive was missing, corrupt, or had an
	// unparseable member name.
	ArchiveError
	// TileNotFound means a GraphId lookup found no matching tile.
	TileNotFound
	// OutOfRange means an index accessor was called with i >= cardinality.
	OutOfRange
	// WrongTile means a reference taken from one tile was passed to another
	// tile's accessor. This is a programming bug, not a recoverable condition.
	WrongTile
	// ParseError means JSON-to-Options lowering failed.
	ParseError
	// BackendError means the routing backend rejected or could not service
	// the request; Err carries the backend's message verbatim.
	BackendError
	// IoError means an mmap, read, or write syscall failed.
	IoError
)

func (k Kind) String() string {
	switch k {
	case ConfigError:
		return "ConfigError"
	case ArchiveError:
		return "ArchiveError"
	case TileNotFound:
		return "TileNotFound"
	case OutOfRange:
		return "OutOfRange"
	case WrongTile:
		return "WrongTile"
	case ParseError:
		return "ParseError"
	case BackendError:
		return "BackendError"
	case IoError:
		return "IoError"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type returned by the engine's public API.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error with no wrapped cause.
func New(k Kind, msg string) *Error {
	return &Error{Kind: k, Msg: msg}
}

// Wrap builds an *Error wrapping an underlying cause.
func Wrap(k Kind, msg string, err error) *Error {
	return &Error{Kind: k, Msg: msg, Err: err}
}

// Is reports whether err carries the given Kind.
func Is(err error, k Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return false
}
