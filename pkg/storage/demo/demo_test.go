package demo

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ABelliqueux/endbasic/pkg/storage"
)

func TestDemoDrive_Enumerate(t *testing.T) {
	drive := NewDrive()

	files, err := drive.Enumerate(context.Background())
	if err != nil {
		t.Fatalf("Enumerate failed: %v", err)
	}

	for _, name := range []string{"HELLO.BAS", "COUNTDOWN.BAS", "GUESS.BAS", "WELCOME.BAS"} {
		if _, ok := files.Entries[name]; !ok {
			t.Errorf("Expected %s in the listing", name)
		}
	}

	var bytes uint64
	for _, meta := range files.Entries {
		if meta.MTime.IsZero() {
			t.Error("Expected fixed timestamps on demo entries")
		}
		bytes += meta.Length
	}
	if files.DiskQuota == nil || files.DiskQuota.Bytes != bytes {
		t.Error("Expected quota to match the space the programs occupy")
	}
	if files.DiskFree == nil || files.DiskFree.Bytes != 0 {
		t.Error("Expected no free space on a read-only drive")
	}
}

func TestDemoDrive_GetIsCaseInsensitive(t *testing.T) {
	drive := NewDrive()

	content, err := drive.Get(context.Background(), "hello.bas")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !strings.Contains(string(content), "Hello, stranger!") {
		t.Errorf("Unexpected content: %q", content)
	}

	if _, err := drive.Get(context.Background(), "MISSING.BAS"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got: %v", err)
	}
}

func TestDemoDrive_IsReadOnly(t *testing.T) {
	ctx := context.Background()
	drive := NewDrive()

	if err := drive.Put(ctx, "NEW.BAS", []byte("x")); !errors.Is(err, storage.ErrPermissionDenied) {
		t.Errorf("Expected ErrPermissionDenied from Put, got: %v", err)
	}
	if err := drive.Delete(ctx, "HELLO.BAS"); !errors.Is(err, storage.ErrPermissionDenied) {
		t.Errorf("Expected ErrPermissionDenied from Delete, got: %v", err)
	}

	// The canned content is still intact after the failed delete.
	if _, err := drive.Get(ctx, "HELLO.BAS"); err != nil {
		t.Errorf("Get after failed delete: %v", err)
	}
}

func TestDriveFactory_RejectsTarget(t *testing.T) {
	factory := NewDriveFactory()

	if _, err := factory.Create(""); err != nil {
		t.Errorf("Create with empty target failed: %v", err)
	}
	if _, err := factory.Create("extra"); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for non-empty target, got: %v", err)
	}
}
