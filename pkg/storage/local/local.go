// Package local implements a persistent drive for the "local" scheme,
// backed by BadgerDB.
//
// This backend is suitable when programs must survive process restarts:
//   - Persistent storage with crash recovery (WAL-based)
//   - Multi-MB program storage without keeping everything in memory
//
// Storage model: two namespaced key prefixes, "content:" for the raw file
// bytes and "meta:" for the JSON-encoded metadata. File names are
// canonicalized to upper case inside the keys, which gives case-insensitive
// lookups and efficient prefix scans for listings.
//
// ACLs are not supported: sharing is a cloud concept and local files have no
// principals to share with. The storage manager reports that on our behalf.
package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/ABelliqueux/endbasic/pkg/storage"
)

const (
	contentPrefix = "content:"
	metaPrefix    = "meta:"
)

// fileMeta is the persisted form of a file's metadata.
type fileMeta struct {
	MTime  time.Time `json:"mtime"`
	Length uint64    `json:"length"`
}

// Drive is a writable drive persisted in a BadgerDB database.
type Drive struct {
	db *badger.DB
}

var _ storage.Drive = (*Drive)(nil)

// NewDrive opens (or creates) the database at dir and returns a drive backed
// by it.
func NewDrive(dir string) (*Drive, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open local drive at %s: %w", dir, err)
	}
	return &Drive{db: db}, nil
}

// Close releases the underlying database. The storage manager calls this
// when the drive is unmounted.
func (d *Drive) Close() error {
	return d.db.Close()
}

func canonicalName(name string) string {
	return strings.ToUpper(name)
}

// Enumerate scans the metadata namespace and returns a listing. Quota and
// free space are reported as unknown: the database grows with the disk.
func (d *Drive) Enumerate(ctx context.Context) (*storage.DriveFiles, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries := make(map[string]storage.Metadata)
	err := d.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(metaPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			name := strings.TrimPrefix(string(item.Key()), metaPrefix)
			err := item.Value(func(val []byte) error {
				var meta fileMeta
				if err := json.Unmarshal(val, &meta); err != nil {
					return fmt.Errorf("corrupt metadata for %s: %w", name, err)
				}
				entries[name] = storage.Metadata{MTime: meta.MTime, Length: meta.Length}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &storage.DriveFiles{Entries: entries}, nil
}

// Get returns the contents of a file.
func (d *Drive) Get(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var content []byte
	err := d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(contentPrefix + canonicalName(name)))
		if err != nil {
			return err
		}
		content, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("file %q: %w", name, storage.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return content, nil
}

// Put writes the content and its metadata in a single transaction.
func (d *Drive) Put(ctx context.Context, name string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	meta, err := json.Marshal(fileMeta{MTime: time.Now(), Length: uint64(len(content))})
	if err != nil {
		return err
	}

	key := canonicalName(name)
	return d.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(contentPrefix+key), content); err != nil {
			return err
		}
		return txn.Set([]byte(metaPrefix+key), meta)
	})
}

// Delete removes the content and metadata of a file.
func (d *Drive) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := canonicalName(name)
	err := d.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(contentPrefix + key)); err != nil {
			return err
		}
		if err := txn.Delete([]byte(contentPrefix + key)); err != nil {
			return err
		}
		return txn.Delete([]byte(metaPrefix + key))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("file %q: %w", name, storage.ErrNotFound)
	}
	return err
}

// DriveFactory builds local drives for the "local" scheme.
type DriveFactory struct{}

// NewDriveFactory creates a factory for local drives.
func NewDriveFactory() *DriveFactory {
	return &DriveFactory{}
}

// Create builds a drive persisted at the directory named by target, e.g.
// "local:///home/user/basic" mounts the database stored there.
func (f *DriveFactory) Create(target string) (storage.Drive, error) {
	if target == "" {
		return nil, fmt.Errorf("local drive requires a directory path: %w", storage.ErrInvalidInput)
	}
	return NewDrive(target)
}
