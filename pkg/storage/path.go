package storage

import (
	"fmt"
	"strings"
)

// location is a resolved path: a mounted drive name plus a file name relative
// to that drive. The drive namespace is flat, so the relative part is a bare
// file name and never contains separators.
type location struct {
	// drive is the case-normalized (upper) drive name. Empty means the
	// current working drive.
	drive string

	// name is the file name within the drive. Empty refers to the drive
	// itself (valid for CD and Enumerate only).
	name string
}

// validateDriveName rejects names that cannot appear in the mount table.
func validateDriveName(name string) error {
	if name == "" {
		return fmt.Errorf("drive name cannot be empty: %w", ErrInvalidInput)
	}
	if strings.ContainsAny(name, ":/\\") {
		return fmt.Errorf("invalid drive name %q: %w", name, ErrInvalidInput)
	}
	return nil
}

// splitPath parses a textual path into a location.
//
// Accepted shapes, where DRIVE is a mount table name:
//
//	DRIVE:/NAME  DRIVE:NAME  DRIVE:/  DRIVE:  NAME
//
// A missing DRIVE part leaves location.drive empty for the caller to fill in
// with the current working drive.
func splitPath(path string) (location, error) {
	drive, name, hasDrive := strings.Cut(path, ":")
	if !hasDrive {
		name = drive
		drive = ""
	} else {
		if err := validateDriveName(drive); err != nil {
			return location{}, err
		}
		drive = strings.ToUpper(drive)
		name = strings.TrimPrefix(name, "/")
	}
	if strings.ContainsAny(name, ":/\\") {
		return location{}, fmt.Errorf("invalid path %q: %w", path, ErrInvalidInput)
	}
	return location{drive: drive, name: name}, nil
}

// splitURI parses a "scheme://target" mount URI.
func splitURI(uri string) (scheme, target string, err error) {
	scheme, target, ok := strings.Cut(uri, "://")
	if !ok || scheme == "" {
		return "", "", fmt.Errorf("invalid mount URI %q: %w", uri, ErrInvalidInput)
	}
	return strings.ToLower(scheme), target, nil
}
