package neuroshare

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed reports an operation on a Library or File that has already
	// been closed.
	ErrClosed = errors.New("neuroshare: handle is closed")

	// ErrInvalidArgument wraps boundary-validation failures: zero counts,
	// empty buffers, entities of the wrong kind. It is returned before any
	// native call is made.
	ErrInvalidArgument = errors.New("neuroshare: invalid argument")
)

// LoadError reports a vendor shared library that could not be loaded.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("neuroshare: load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// UnloadError reports a native unload that failed. The handle is still
// consumed when this is returned.
type UnloadError struct {
	Path string
	Err  error
}

func (e *UnloadError) Error() string {
	return fmt.Sprintf("neuroshare: unload %s: %v", e.Path, e.Err)
}

func (e *UnloadError) Unwrap() error { return e.Err }

// SymbolError reports an invoked entry point that the vendor library does
// not export. Missing symbols are tolerated at load time and only surface
// through the operation that needs them.
type SymbolError struct {
	Name string
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("neuroshare: entry point %s not provided by library", e.Name)
}

// CallError reports a vendor entry point that returned a non-OK status.
// Message carries the library's own last-error text when it was retrievable.
type CallError struct {
	Op      string
	Status  Status
	Message string
}

func (e *CallError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("neuroshare: %s: %s", e.Op, e.Status)
	}
	return fmt.Sprintf("neuroshare: %s: %s (%s)", e.Op, e.Message, e.Status)
}
