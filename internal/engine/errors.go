package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

var (
	// ErrNoSources rejects a request with an empty source list.
	ErrNoSources = errors.New("no sources given")

	// ErrDestinationDirMissing rejects a copy or move whose destination
	// directory does not exist.
	ErrDestinationDirMissing = errors.New("destination directory missing")

	// ErrUnknownKind rejects a request with an invalid Kind.
	ErrUnknownKind = errors.New("unknown job kind")

	// ErrSourceNotFound marks an item whose source vanished.
	ErrSourceNotFound = errors.New("source not found")

	// ErrPermissionDenied marks an item the process may not read or remove.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrDestinationUnwritable marks an item that could not be written.
	ErrDestinationUnwritable = errors.New("destination unwritable")

	// ErrIntoItself marks a directory copied or moved into its own subtree.
	ErrIntoItself = errors.New("cannot copy a directory into itself")

	// ErrDuplicateTarget marks a source whose target an earlier source in
	// the same request already writes.
	ErrDuplicateTarget = errors.New("same name as an earlier source")

	// ErrSpecialFile marks a device, FIFO or socket that a move cannot carry.
	ErrSpecialFile = errors.New("special file not moved")

	errCancelled = errors.New("cancelled")
)

// ItemError is a recoverable failure of a single item in a batch.
type ItemError struct {
	Err  error
	Name string
}

func (e *ItemError) Error() string { return e.Name + ": " + e.Err.Error() }

func (e *ItemError) Unwrap() error { return e.Err }

// cause strips the path from a *PathError; the item name already says which
// file failed.
func cause(err error) error {
	var pe *os.PathError
	if errors.As(err, &pe) {
		return pe.Err
	}
	var le *os.LinkError
	if errors.As(err, &le) {
		return le.Err
	}
	return err
}

// sourceErr classifies a failure reading or removing a source.
func sourceErr(err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %w", ErrSourceNotFound, cause(err))
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %w", ErrPermissionDenied, cause(err))
	default:
		return err
	}
}

// destErr classifies a failure creating or writing a destination.
func destErr(err error) error {
	return fmt.Errorf("%w: %w", ErrDestinationUnwritable, cause(err))
}
