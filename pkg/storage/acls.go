package storage

import (
	"sort"
	"strings"
)

// FileAcls is a set of reader principals attached to a file.
//
// The set is kept sorted and deduplicated so that listings are deterministic
// regardless of the order in which readers were added. The zero value is the
// empty set and is ready to use.
//
// The distinguished principal "public" (compared case-insensitively) grants
// read access to everyone; see HasPublicReader.
type FileAcls struct {
	readers []string
}

// NewFileAcls creates a set from the given readers.
func NewFileAcls(readers ...string) FileAcls {
	var acls FileAcls
	for _, reader := range readers {
		acls.Add(reader)
	}
	return acls
}

// Add inserts a reader into the set, keeping it sorted. Adding the same
// principal twice is a no-op: the set deduplicates on exact string equality.
// Case is preserved as given.
func (a *FileAcls) Add(reader string) {
	i := sort.SearchStrings(a.readers, reader)
	if i < len(a.readers) && a.readers[i] == reader {
		return
	}
	a.readers = append(a.readers, "")
	copy(a.readers[i+1:], a.readers[i:])
	a.readers[i] = reader
}

// Readers returns the principals in sorted order. The returned slice is a
// copy and safe to modify.
func (a *FileAcls) Readers() []string {
	readers := make([]string, len(a.readers))
	copy(readers, a.readers)
	return readers
}

// IsEmpty reports whether the set contains no readers.
func (a *FileAcls) IsEmpty() bool {
	return len(a.readers) == 0
}

// HasPublicReader reports whether any reader, compared case-insensitively,
// is the wildcard principal "public".
func (a *FileAcls) HasPublicReader() bool {
	for _, reader := range a.readers {
		if strings.EqualFold(reader, "public") {
			return true
		}
	}
	return false
}
