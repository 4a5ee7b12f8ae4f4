package storage

import (
	"errors"
	"fmt"
)

// ============================================================================
// Standard storage errors
// ============================================================================

// These sentinels provide a consistent way to indicate common failure
// conditions across all drive implementations and the storage manager.
// Command-level callers check them with errors.Is and decide how to react
// (e.g. LOGOUT tolerates ErrNotFound from Unmount but aborts on ErrDriveBusy).
//
// Implementations should wrap these errors with additional context:
//
//	if !exists {
//	    return fmt.Errorf("file %s: %w", name, ErrNotFound)
//	}

var (
	// ErrNotFound indicates a missing file or an unmounted drive name.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a duplicate mount name or a conflicting
	// create operation.
	ErrAlreadyExists = errors.New("already exists")

	// ErrDriveBusy indicates an attempt to unmount the drive that is the
	// current working drive. Distinct from ErrNotFound so callers can tell
	// "already unmounted" apart from "navigate away first".
	ErrDriveBusy = errors.New("drive is busy")

	// ErrPermissionDenied indicates a write or delete on a read-only
	// backend, or an ACL-restricted read.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidInput indicates a malformed URI, path, or target string.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupported indicates an operation the backend does not implement,
	// such as ACL manipulation on a drive without sharing support.
	ErrUnsupported = errors.New("operation not supported")
)

// InvalidACLError reports a malformed ACL change token. The offending token
// text is carried verbatim so the caller can echo it back to the user.
type InvalidACLError struct {
	Token string
}

func (e *InvalidACLError) Error() string {
	return fmt.Sprintf("invalid ACL %q: must be of the form \"username+r\" or \"username-r\"", e.Token)
}

// Is makes InvalidACLError match ErrInvalidInput in errors.Is chains.
func (e *InvalidACLError) Is(target error) bool {
	return target == ErrInvalidInput
}
