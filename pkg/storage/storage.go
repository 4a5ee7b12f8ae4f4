package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/ABelliqueux/endbasic/internal/logger"
)

// Storage owns the mount table, the scheme registry, and the current working
// drive pointer. It is the single entry point for all command-level file
// operations: paths are resolved here and the actual work is delegated to the
// mounted Drive.
//
// Example usage:
//
//	st := storage.New()
//	st.RegisterScheme("memory", memory.NewDriveFactory())
//	st.Mount("MEMORY", "memory://")
//	st.CD("MEMORY:/")
//	st.Put(ctx, "MEMORY:/HELLO.BAS", []byte("PRINT 1"))
//
// Commands run sequentially, but the mount table is still guarded by a mutex
// the same way other long-lived registries in this codebase are: the lock
// keeps the table coherent if a caller ever drives it from more than one
// goroutine.
type Storage struct {
	mu        sync.RWMutex
	factories map[string]DriveFactory
	drives    map[string]*mountedDrive
	current   string
}

// mountedDrive is one mount table entry. The Drive instance is exclusively
// owned by the entry and is dropped when the entry is removed.
type mountedDrive struct {
	uri   string
	drive Drive
}

// New creates a storage manager with no schemes registered and nothing
// mounted.
func New() *Storage {
	return &Storage{
		factories: make(map[string]DriveFactory),
		drives:    make(map[string]*mountedDrive),
	}
}

// RegisterScheme associates a URI scheme with a drive factory. Registering
// the same scheme twice fails so that backend behavior cannot be silently
// shadowed.
func (s *Storage) RegisterScheme(scheme string, factory DriveFactory) error {
	if factory == nil {
		return fmt.Errorf("cannot register nil factory for scheme %q", scheme)
	}
	scheme = strings.ToLower(scheme)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.factories[scheme]; exists {
		return fmt.Errorf("scheme %q already registered: %w", scheme, ErrAlreadyExists)
	}
	s.factories[scheme] = factory
	return nil
}

// HasScheme reports whether a factory is registered for the given scheme.
func (s *Storage) HasScheme(scheme string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.factories[strings.ToLower(scheme)]
	return exists
}

// Mount creates a drive for the given URI and binds it to name in the mount
// table. The name is case-normalized to upper case and must be unique.
func (s *Storage) Mount(name, uri string) error {
	if err := validateDriveName(name); err != nil {
		return err
	}
	name = strings.ToUpper(name)

	scheme, target, err := splitURI(uri)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.drives[name]; exists {
		return fmt.Errorf("drive %q already mounted: %w", name, ErrAlreadyExists)
	}
	factory, exists := s.factories[scheme]
	if !exists {
		return fmt.Errorf("unsupported scheme %q: %w", scheme, ErrInvalidInput)
	}

	drive, err := factory.Create(target)
	if err != nil {
		return err
	}

	logger.Debug("mounted drive %s at %s", name, uri)
	s.drives[name] = &mountedDrive{uri: uri, drive: drive}
	return nil
}

// Unmount removes a drive from the mount table and releases it. Unmounting
// an unknown name fails with ErrNotFound; unmounting the current working
// drive fails with ErrDriveBusy so callers can tell the two cases apart.
func (s *Storage) Unmount(name string) error {
	name = strings.ToUpper(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.drives[name]
	if !exists {
		return fmt.Errorf("drive %q: %w", name, ErrNotFound)
	}
	if name == s.current {
		return fmt.Errorf("cannot unmount the current drive %q: %w", name, ErrDriveBusy)
	}

	delete(s.drives, name)
	if closer, ok := entry.drive.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			logger.Warn("error releasing drive %s: %v", name, err)
		}
	}
	logger.Debug("unmounted drive %s", name)
	return nil
}

// CD changes the current working drive. The path must reference the root of
// a mounted drive (e.g. "MEMORY:/"); subdirectories do not exist in this
// filesystem model.
func (s *Storage) CD(path string) error {
	loc, err := splitPath(path)
	if err != nil {
		return err
	}
	if loc.name != "" {
		return fmt.Errorf("cannot cd into %q: drives have no subdirectories: %w", path, ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	name := loc.drive
	if name == "" {
		name = s.current
	}
	if _, exists := s.drives[name]; !exists {
		return fmt.Errorf("drive %q: %w", name, ErrNotFound)
	}
	s.current = name
	return nil
}

// CWD returns the current working location, e.g. "MEMORY:/". The second
// return is false when no current drive has been set yet.
func (s *Storage) CWD() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == "" {
		return "", false
	}
	return s.current + ":/", true
}

// Mounted returns the mount table as a name-to-URI mapping. The returned map
// is a copy and safe to modify; reading it has no side effects.
func (s *Storage) Mounted() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	mounted := make(map[string]string, len(s.drives))
	for name, entry := range s.drives {
		mounted[name] = entry.uri
	}
	return mounted
}

// resolve maps a path to its drive and relative file name. When the path has
// no drive part, the current working drive is used.
func (s *Storage) resolve(path string, wantName bool) (Drive, location, error) {
	loc, err := splitPath(path)
	if err != nil {
		return nil, location{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if loc.drive == "" {
		if s.current == "" {
			return nil, location{}, fmt.Errorf("no current drive to resolve %q against: %w", path, ErrInvalidInput)
		}
		loc.drive = s.current
	}
	entry, exists := s.drives[loc.drive]
	if !exists {
		return nil, location{}, fmt.Errorf("drive %q: %w", loc.drive, ErrNotFound)
	}
	if wantName && loc.name == "" {
		return nil, location{}, fmt.Errorf("missing file name in %q: %w", path, ErrInvalidInput)
	}
	return entry.drive, loc, nil
}

// Enumerate lists the files of the drive referenced by path. An empty path
// lists the current working drive.
func (s *Storage) Enumerate(ctx context.Context, path string) (*DriveFiles, error) {
	drive, _, err := s.resolve(path, false)
	if err != nil {
		return nil, err
	}
	return drive.Enumerate(ctx)
}

// Get returns the contents of the file referenced by path.
func (s *Storage) Get(ctx context.Context, path string) ([]byte, error) {
	drive, loc, err := s.resolve(path, true)
	if err != nil {
		return nil, err
	}
	return drive.Get(ctx, loc.name)
}

// Put creates or overwrites the file referenced by path.
func (s *Storage) Put(ctx context.Context, path string, content []byte) error {
	drive, loc, err := s.resolve(path, true)
	if err != nil {
		return err
	}
	return drive.Put(ctx, loc.name, content)
}

// Delete removes the file referenced by path.
func (s *Storage) Delete(ctx context.Context, path string) error {
	drive, loc, err := s.resolve(path, true)
	if err != nil {
		return err
	}
	return drive.Delete(ctx, loc.name)
}

// GetACLs returns the reader ACLs of the file referenced by path. Fails with
// ErrUnsupported when the backing drive has no sharing support.
func (s *Storage) GetACLs(ctx context.Context, path string) (FileAcls, error) {
	drive, loc, err := s.resolve(path, true)
	if err != nil {
		return FileAcls{}, err
	}
	aclDrive, ok := drive.(ACLCapableDrive)
	if !ok {
		return FileAcls{}, fmt.Errorf("drive %q does not support ACLs: %w", loc.drive, ErrUnsupported)
	}
	return aclDrive.GetACLs(ctx, loc.name)
}

// UpdateACLs applies reader additions and removals to the file referenced by
// path. Fails with ErrUnsupported when the backing drive has no sharing
// support.
func (s *Storage) UpdateACLs(ctx context.Context, path string, add, remove FileAcls) error {
	drive, loc, err := s.resolve(path, true)
	if err != nil {
		return err
	}
	aclDrive, ok := drive.(ACLCapableDrive)
	if !ok {
		return fmt.Errorf("drive %q does not support ACLs: %w", loc.drive, ErrUnsupported)
	}
	return aclDrive.UpdateACLs(ctx, loc.name, add, remove)
}
