// Package demo exposes a set of canned example programs as a read-only
// drive for the "demo" scheme. The drive gives new users something to list
// and run before they have stored anything of their own.
package demo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ABelliqueux/endbasic/pkg/storage"
)

// program is one canned file: fixed content and a fixed timestamp so that
// listings are stable across runs and platforms.
type program struct {
	mtime   time.Time
	content string
}

var programs = map[string]program{
	"HELLO.BAS": {
		mtime:   time.Unix(1608646800, 0).UTC(),
		content: "PRINT \"Hello, stranger!\"\n",
	},
	"COUNTDOWN.BAS": {
		mtime:   time.Unix(1613316558, 0).UTC(),
		content: "FOR i = 10 TO 1 STEP -1\nPRINT i\nNEXT\nPRINT \"Liftoff!\"\n",
	},
	"GUESS.BAS": {
		mtime:   time.Unix(1608693152, 0).UTC(),
		content: "secret = 42\nINPUT \"Your guess\"; n\nIF n = secret THEN PRINT \"You got it!\" ELSE PRINT \"Nope\"\n",
	},
	"WELCOME.BAS": {
		mtime:   time.Unix(1671243940, 0).UTC(),
		content: "PRINT \"Welcome to the demo drive.\"\nPRINT \"These files are read-only.\"\n",
	},
}

// Drive is the read-only drive serving the canned programs. Writes and
// deletes fail with a permission error and ACLs are not supported.
type Drive struct{}

var _ storage.Drive = (*Drive)(nil)

// NewDrive creates the demo drive.
func NewDrive() *Drive {
	return &Drive{}
}

// Enumerate lists the canned programs. The quota reports exactly the space
// the programs occupy and the free figures are zero: nothing can be added.
func (d *Drive) Enumerate(ctx context.Context) (*storage.DriveFiles, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries := make(map[string]storage.Metadata, len(programs))
	var bytes uint64
	for name, p := range programs {
		entries[name] = storage.Metadata{MTime: p.mtime, Length: uint64(len(p.content))}
		bytes += uint64(len(p.content))
	}

	return &storage.DriveFiles{
		Entries:   entries,
		DiskQuota: &storage.DiskSpace{Bytes: bytes, Files: uint64(len(programs))},
		DiskFree:  &storage.DiskSpace{},
	}, nil
}

// Get returns the contents of a canned program. Lookups are
// case-insensitive.
func (d *Drive) Get(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p, exists := programs[strings.ToUpper(name)]
	if !exists {
		return nil, fmt.Errorf("demo %q: %w", name, storage.ErrNotFound)
	}
	return []byte(p.content), nil
}

// Put always fails: the demo drive is read-only.
func (d *Drive) Put(ctx context.Context, name string, content []byte) error {
	return fmt.Errorf("the demo drive is read-only: %w", storage.ErrPermissionDenied)
}

// Delete always fails: the demo drive is read-only.
func (d *Drive) Delete(ctx context.Context, name string) error {
	return fmt.Errorf("the demo drive is read-only: %w", storage.ErrPermissionDenied)
}

// DriveFactory builds demo drives for the "demo" scheme.
type DriveFactory struct{}

// NewDriveFactory creates a factory for demo drives.
func NewDriveFactory() *DriveFactory {
	return &DriveFactory{}
}

// Create builds the demo drive. The demo scheme carries no target.
func (f *DriveFactory) Create(target string) (storage.Drive, error) {
	if target != "" {
		return nil, fmt.Errorf("cannot specify a path to mount a demo drive: %w", storage.ErrInvalidInput)
	}
	return NewDrive(), nil
}
