package storage

import (
	"reflect"
	"testing"
)

func TestFileAcls_AddKeepsSortedSet(t *testing.T) {
	var acls FileAcls
	for _, reader := range []string{"zoe", "alice", "mark", "alice", "zoe"} {
		acls.Add(reader)
	}

	want := []string{"alice", "mark", "zoe"}
	if got := acls.Readers(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected readers %v, got %v", want, got)
	}
}

func TestFileAcls_AddPreservesCase(t *testing.T) {
	acls := NewFileAcls("Alice", "alice")

	// Distinct spellings are distinct principals.
	if got := len(acls.Readers()); got != 2 {
		t.Errorf("Expected 2 readers, got %d", got)
	}
}

func TestFileAcls_ReadersReturnsCopy(t *testing.T) {
	acls := NewFileAcls("alice")
	readers := acls.Readers()
	readers[0] = "mallory"

	if got := acls.Readers()[0]; got != "alice" {
		t.Errorf("Mutating the returned slice leaked into the set: got %q", got)
	}
}

func TestFileAcls_IsEmpty(t *testing.T) {
	var acls FileAcls
	if !acls.IsEmpty() {
		t.Error("Zero value should be empty")
	}
	acls.Add("alice")
	if acls.IsEmpty() {
		t.Error("Set with one reader should not be empty")
	}
}

func TestFileAcls_HasPublicReader(t *testing.T) {
	tests := []struct {
		readers []string
		want    bool
	}{
		{nil, false},
		{[]string{"alice"}, false},
		{[]string{"public"}, true},
		{[]string{"PUBLIC"}, true},
		{[]string{"PuBlIc"}, true},
		{[]string{"alice", "Public"}, true},
		{[]string{"publicity"}, false},
	}

	for _, tt := range tests {
		acls := NewFileAcls(tt.readers...)
		if got := acls.HasPublicReader(); got != tt.want {
			t.Errorf("HasPublicReader(%v) = %v, want %v", tt.readers, got, tt.want)
		}
	}
}
