package cloud

import (
	"context"
	"fmt"
	"strings"

	"github.com/ABelliqueux/endbasic/pkg/storage"
)

// Drive is the backend for the "cloud" scheme: a view over one user's files
// held by the service. Mounting "cloud://alice" exposes alice's drive; what
// the viewer can actually read or write is decided server-side from the
// session token and the files' ACLs.
type Drive struct {
	service  Service
	username string
}

var _ storage.ACLCapableDrive = (*Drive)(nil)

// NewDrive creates a drive over the given user's files.
func NewDrive(service Service, username string) *Drive {
	return &Drive{service: service, username: username}
}

// Enumerate lists the user's files as reported by the service.
func (d *Drive) Enumerate(ctx context.Context) (*storage.DriveFiles, error) {
	return d.service.GetFiles(ctx, d.username)
}

// Get downloads one file.
func (d *Drive) Get(ctx context.Context, name string) ([]byte, error) {
	return d.service.GetFile(ctx, d.username, name)
}

// Put uploads one file.
func (d *Drive) Put(ctx context.Context, name string, content []byte) error {
	return d.service.PutFile(ctx, d.username, name, content)
}

// Delete removes one file.
func (d *Drive) Delete(ctx context.Context, name string) error {
	return d.service.DeleteFile(ctx, d.username, name)
}

// GetACLs fetches the reader ACLs of one file.
func (d *Drive) GetACLs(ctx context.Context, name string) (storage.FileAcls, error) {
	return d.service.GetFileACLs(ctx, d.username, name)
}

// UpdateACLs applies reader additions and removals to one file.
func (d *Drive) UpdateACLs(ctx context.Context, name string, add, remove storage.FileAcls) error {
	return d.service.UpdateFileACLs(ctx, d.username, name, add, remove)
}

// DriveFactory builds cloud drives. The mount target names the user whose
// drive to expose, e.g. "cloud://alice".
type DriveFactory struct {
	service Service
}

// NewDriveFactory creates a factory backed by the given service.
func NewDriveFactory(service Service) *DriveFactory {
	return &DriveFactory{service: service}
}

// Create validates the username target and builds the drive.
func (f *DriveFactory) Create(target string) (storage.Drive, error) {
	if target == "" {
		return nil, fmt.Errorf("cloud drive requires a username: %w", storage.ErrInvalidInput)
	}
	if strings.ContainsAny(target, "/:") {
		return nil, fmt.Errorf("invalid cloud drive username %q: %w", target, storage.ErrInvalidInput)
	}
	return NewDrive(f.service, target), nil
}
