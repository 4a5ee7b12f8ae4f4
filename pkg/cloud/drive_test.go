package cloud

import (
	"context"
	"errors"
	"testing"

	"github.com/ABelliqueux/endbasic/pkg/storage"
)

func TestCloudDrive_DelegatesToService(t *testing.T) {
	ctx := context.Background()
	service := newMockService()
	drive := NewDrive(service, "alice")

	if err := drive.Put(ctx, "FILE.BAS", []byte("PRINT 1")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	content, err := drive.Get(ctx, "FILE.BAS")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(content) != "PRINT 1" {
		t.Errorf("Unexpected content: %q", content)
	}

	files, err := drive.Enumerate(ctx)
	if err != nil {
		t.Fatalf("Enumerate failed: %v", err)
	}
	if _, ok := files.Entries["FILE.BAS"]; !ok {
		t.Errorf("Expected FILE.BAS in the listing, got %v", files.Entries)
	}

	if err := drive.Delete(ctx, "FILE.BAS"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := drive.Get(ctx, "FILE.BAS"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got: %v", err)
	}
}

func TestCloudDrive_ScopedToUsername(t *testing.T) {
	ctx := context.Background()
	service := newMockService()
	if err := service.PutFile(ctx, "bob", "SECRET.BAS", []byte("x")); err != nil {
		t.Fatalf("PutFile failed: %v", err)
	}

	drive := NewDrive(service, "alice")
	files, err := drive.Enumerate(ctx)
	if err != nil {
		t.Fatalf("Enumerate failed: %v", err)
	}
	if len(files.Entries) != 0 {
		t.Errorf("alice's drive must not expose bob's files, got %v", files.Entries)
	}
}

func TestCloudDriveFactory_ValidatesTarget(t *testing.T) {
	factory := NewDriveFactory(newMockService())

	if _, err := factory.Create("alice"); err != nil {
		t.Errorf("Create(alice) failed: %v", err)
	}

	for _, target := range []string{"", "a/b", "a:b"} {
		if _, err := factory.Create(target); !errors.Is(err, storage.ErrInvalidInput) {
			t.Errorf("Create(%q) should fail with ErrInvalidInput, got: %v", target, err)
		}
	}
}
