// Package drivetest provides a reusable contract test suite for Drive
// implementations.
//
// The suite tests the interface contract, not implementation details, so the
// same tests cover every writable backend regardless of where it keeps its
// bytes.
//
// Usage:
//
//	func TestMyDrive(t *testing.T) {
//	    suite := &drivetest.Suite{
//	        NewDrive: func(t *testing.T) storage.Drive {
//	            return mydrive.NewDrive()
//	        },
//	    }
//	    suite.Run(t)
//	}
package drivetest

import (
	"context"
	"errors"
	"testing"

	"github.com/ABelliqueux/endbasic/pkg/storage"
)

// Suite exercises the Drive contract against a writable backend.
type Suite struct {
	// NewDrive creates a fresh, empty drive for each test. Tests never share
	// a drive instance.
	NewDrive func(t *testing.T) storage.Drive
}

// Run executes all tests in the suite.
func (s *Suite) Run(t *testing.T) {
	t.Run("EmptyEnumerate", s.testEmptyEnumerate)
	t.Run("PutGetRoundTrip", s.testPutGetRoundTrip)
	t.Run("CaseInsensitiveNames", s.testCaseInsensitiveNames)
	t.Run("Overwrite", s.testOverwrite)
	t.Run("Delete", s.testDelete)
	t.Run("MissingFile", s.testMissingFile)
	t.Run("EnumerateMetadata", s.testEnumerateMetadata)
}

func testContext() context.Context {
	return context.Background()
}

func (s *Suite) testEmptyEnumerate(t *testing.T) {
	drive := s.NewDrive(t)

	files, err := drive.Enumerate(testContext())
	if err != nil {
		t.Fatalf("Enumerate failed: %v", err)
	}
	if len(files.Entries) != 0 {
		t.Errorf("Expected no entries on a fresh drive, got %d", len(files.Entries))
	}
}

func (s *Suite) testPutGetRoundTrip(t *testing.T) {
	drive := s.NewDrive(t)
	ctx := testContext()

	content := []byte("PRINT \"Hello!\"\n")
	if err := drive.Put(ctx, "HELLO.BAS", content); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := drive.Get(ctx, "HELLO.BAS")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("Expected content %q, got %q", content, got)
	}
}

func (s *Suite) testCaseInsensitiveNames(t *testing.T) {
	drive := s.NewDrive(t)
	ctx := testContext()

	if err := drive.Put(ctx, "hello.bas", []byte("PRINT 1")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := drive.Get(ctx, "HELLO.BAS")
	if err != nil {
		t.Fatalf("Get with different case failed: %v", err)
	}
	if string(got) != "PRINT 1" {
		t.Errorf("Unexpected content: %q", got)
	}

	files, err := drive.Enumerate(ctx)
	if err != nil {
		t.Fatalf("Enumerate failed: %v", err)
	}
	if len(files.Entries) != 1 {
		t.Errorf("Expected one entry for differently-cased writes, got %d", len(files.Entries))
	}
}

func (s *Suite) testOverwrite(t *testing.T) {
	drive := s.NewDrive(t)
	ctx := testContext()

	if err := drive.Put(ctx, "A.BAS", []byte("first")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := drive.Put(ctx, "A.BAS", []byte("second")); err != nil {
		t.Fatalf("Overwrite failed: %v", err)
	}

	got, err := drive.Get(ctx, "A.BAS")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "second" {
		t.Errorf("Expected overwritten content, got %q", got)
	}
}

func (s *Suite) testDelete(t *testing.T) {
	drive := s.NewDrive(t)
	ctx := testContext()

	if err := drive.Put(ctx, "A.BAS", []byte("x")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := drive.Delete(ctx, "A.BAS"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := drive.Get(ctx, "A.BAS"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got: %v", err)
	}
}

func (s *Suite) testMissingFile(t *testing.T) {
	drive := s.NewDrive(t)
	ctx := testContext()

	if _, err := drive.Get(ctx, "MISSING.BAS"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound from Get, got: %v", err)
	}
	if err := drive.Delete(ctx, "MISSING.BAS"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound from Delete, got: %v", err)
	}
}

func (s *Suite) testEnumerateMetadata(t *testing.T) {
	drive := s.NewDrive(t)
	ctx := testContext()

	if err := drive.Put(ctx, "A.BAS", []byte("12345")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	files, err := drive.Enumerate(ctx)
	if err != nil {
		t.Fatalf("Enumerate failed: %v", err)
	}

	names := files.SortedNames()
	if len(names) != 1 {
		t.Fatalf("Expected one entry, got %v", names)
	}
	meta := files.Entries[names[0]]
	if meta.Length != 5 {
		t.Errorf("Expected length 5, got %d", meta.Length)
	}
	if meta.MTime.IsZero() {
		t.Error("Expected a modification time to be recorded")
	}
}
