// Package storage implements the virtual storage layer: a mount table of
// named, scheme-addressed drives behind a uniform capability contract.
//
// A Drive is one backend (in-memory, cloud, demo, ...). Drives are created by
// a per-scheme DriveFactory when a URI such as "memory://" or "cloud://alice"
// is mounted, and are exclusively owned by their mount table entry until
// unmounted. The Storage manager resolves textual paths of the form
// "DRIVE:/NAME" to a drive plus a relative file name and delegates to it.
package storage

import (
	"context"
	"sort"
	"time"
)

// Metadata describes a single file entry in a drive.
type Metadata struct {
	// MTime is the file's modification timestamp.
	MTime time.Time

	// Length is the file size in bytes.
	Length uint64
}

// DiskSpace is a pair of byte and file counts, used for both quota and free
// space figures in a listing.
type DiskSpace struct {
	Bytes uint64
	Files uint64
}

// DriveFiles is the result of enumerating a drive: the file entries plus
// optional quota and free-space figures. Backends that cannot represent
// their figures in uint64 leave the corresponding field nil.
type DriveFiles struct {
	// Entries maps canonical file names to their metadata.
	Entries map[string]Metadata

	// DiskQuota is the total space assigned to the drive, if known.
	DiskQuota *DiskSpace

	// DiskFree is the remaining space on the drive, if known.
	DiskFree *DiskSpace
}

// SortedNames returns the entry names in lexicographic order, giving
// listings a deterministic shape.
func (f *DriveFiles) SortedNames() []string {
	names := make([]string, 0, len(f.Entries))
	for name := range f.Entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Drive is the capability contract implemented by every storage backend.
//
// File name lookups are case-insensitive: backends normalize names to a
// canonical case (conventionally upper case) on both reads and writes.
// Operations that touch backend I/O take a context for cancellation.
type Drive interface {
	// Enumerate returns a snapshot of all files in the drive. The result is
	// never partially populated: on error, no DriveFiles is returned.
	Enumerate(ctx context.Context) (*DriveFiles, error)

	// Get returns the raw contents of a file. Fails with ErrNotFound if the
	// file does not exist.
	Get(ctx context.Context, name string) ([]byte, error)

	// Put creates or overwrites a file. Fails with ErrPermissionDenied on
	// read-only backends.
	Put(ctx context.Context, name string, content []byte) error

	// Delete removes a file. Fails with ErrPermissionDenied on read-only
	// backends and ErrNotFound if the file does not exist.
	Delete(ctx context.Context, name string) error
}

// ACLCapableDrive is the optional sharing extension of a Drive. Backends
// without sharing support simply do not implement it; the storage manager
// reports ErrUnsupported on their behalf instead of silently ignoring the
// request.
type ACLCapableDrive interface {
	Drive

	// GetACLs returns the reader ACLs of a file.
	GetACLs(ctx context.Context, name string) (FileAcls, error)

	// UpdateACLs adds and removes readers from a file's ACLs in a single
	// operation. Removals of principals that are not present are ignored.
	UpdateACLs(ctx context.Context, name string, add, remove FileAcls) error
}

// DriveFactory constructs a Drive from the target portion of a mount URI.
// One factory is registered per scheme; the factory validates its target
// (e.g. the memory scheme rejects non-empty targets).
type DriveFactory interface {
	Create(target string) (Drive, error)
}
