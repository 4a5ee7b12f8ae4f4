// Package memory implements an in-memory drive for the "memory" scheme.
//
// This backend is the default working drive of the runtime. It is designed
// for:
//   - Scratch space for interactive sessions
//   - Testing and development
//
// Characteristics:
//   - Fast: all operations are memory-speed
//   - Volatile: contents are lost when the drive is unmounted
//   - Full-featured: writable and ACL-capable
//
// Thread safety: all operations are protected by a sync.RWMutex, matching
// the locking discipline of the other registries in this codebase. Content
// is copied on both reads and writes so callers cannot alias the stored
// buffers.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ABelliqueux/endbasic/pkg/storage"
)

// file is one stored entry: its content, metadata, and reader ACLs.
type file struct {
	content []byte
	mtime   time.Time
	acls    storage.FileAcls
}

// Drive is a writable, ACL-capable drive backed by a map.
type Drive struct {
	mu    sync.RWMutex
	files map[string]*file
}

var _ storage.ACLCapableDrive = (*Drive)(nil)

// NewDrive creates an empty in-memory drive.
func NewDrive() *Drive {
	return &Drive{files: make(map[string]*file)}
}

// canonicalName normalizes a file name for case-insensitive lookups.
func canonicalName(name string) string {
	return strings.ToUpper(name)
}

// Enumerate returns a snapshot of the drive. Quota and free-space figures
// are omitted because the drive has no meaningful limits.
func (d *Drive) Enumerate(ctx context.Context) (*storage.DriveFiles, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	entries := make(map[string]storage.Metadata, len(d.files))
	for name, f := range d.files {
		entries[name] = storage.Metadata{MTime: f.mtime, Length: uint64(len(f.content))}
	}

	return &storage.DriveFiles{Entries: entries}, nil
}

// Get returns a copy of the file's contents.
func (d *Drive) Get(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	f, exists := d.files[canonicalName(name)]
	if !exists {
		return nil, fmt.Errorf("file %q: %w", name, storage.ErrNotFound)
	}
	content := make([]byte, len(f.content))
	copy(content, f.content)
	return content, nil
}

// Put creates or overwrites a file. Existing ACLs survive an overwrite.
func (d *Drive) Put(ctx context.Context, name string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	stored := make([]byte, len(content))
	copy(stored, content)

	key := canonicalName(name)
	if f, exists := d.files[key]; exists {
		f.content = stored
		f.mtime = time.Now()
		return nil
	}
	d.files[key] = &file{content: stored, mtime: time.Now()}
	return nil
}

// Delete removes a file and its ACLs.
func (d *Drive) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	key := canonicalName(name)
	if _, exists := d.files[key]; !exists {
		return fmt.Errorf("file %q: %w", name, storage.ErrNotFound)
	}
	delete(d.files, key)
	return nil
}

// GetACLs returns the reader ACLs of a file.
func (d *Drive) GetACLs(ctx context.Context, name string) (storage.FileAcls, error) {
	if err := ctx.Err(); err != nil {
		return storage.FileAcls{}, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	f, exists := d.files[canonicalName(name)]
	if !exists {
		return storage.FileAcls{}, fmt.Errorf("file %q: %w", name, storage.ErrNotFound)
	}
	return storage.NewFileAcls(f.acls.Readers()...), nil
}

// UpdateACLs adds and removes readers from a file's ACLs. Removing a reader
// that is not present is not an error.
func (d *Drive) UpdateACLs(ctx context.Context, name string, add, remove storage.FileAcls) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	f, exists := d.files[canonicalName(name)]
	if !exists {
		return fmt.Errorf("file %q: %w", name, storage.ErrNotFound)
	}

	removed := make(map[string]bool)
	for _, reader := range remove.Readers() {
		removed[reader] = true
	}

	var acls storage.FileAcls
	for _, reader := range f.acls.Readers() {
		if !removed[reader] {
			acls.Add(reader)
		}
	}
	for _, reader := range add.Readers() {
		if !removed[reader] {
			acls.Add(reader)
		}
	}
	f.acls = acls
	return nil
}

// DriveFactory builds memory drives for the "memory" scheme.
type DriveFactory struct{}

// NewDriveFactory creates a factory for memory drives.
func NewDriveFactory() *DriveFactory {
	return &DriveFactory{}
}

// Create builds a fresh drive. The memory scheme carries no target, so any
// non-empty target is rejected.
func (f *DriveFactory) Create(target string) (storage.Drive, error) {
	if target != "" {
		return nil, fmt.Errorf("cannot specify a path to mount a memory drive: %w", storage.ErrInvalidInput)
	}
	return NewDrive(), nil
}
