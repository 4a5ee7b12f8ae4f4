package cli

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/ABelliqueux/endbasic/pkg/cloud"
	"github.com/ABelliqueux/endbasic/pkg/console/consoletest"
	"github.com/ABelliqueux/endbasic/pkg/storage"
	"github.com/ABelliqueux/endbasic/pkg/storage/memory"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		line string
		name string
		args []string
	}{
		{"", "", nil},
		{"   ", "", nil},
		{"PWD", "PWD", nil},
		{"pwd", "PWD", nil},
		{"CD MEMORY:/", "CD", []string{"MEMORY:/"}},
		{`LOGIN "alice", "secret123"`, "LOGIN", []string{"alice", "secret123"}},
		{`MOUNT X, memory://`, "MOUNT", []string{"X", "memory://"}},
		{`SHARE "FILE.BAS", "bob+r", "eve-r"`, "SHARE", []string{"FILE.BAS", "bob+r", "eve-r"}},
		{`TYPE "TWO WORDS.BAS"`, "TYPE", []string{"TWO WORDS.BAS"}},
		{`SHARE "a,b"`, "SHARE", []string{"a,b"}},
	}

	for _, tt := range tests {
		name, args, err := parseLine(tt.line)
		if err != nil {
			t.Errorf("parseLine(%q) failed: %v", tt.line, err)
			continue
		}
		if name != tt.name || !reflect.DeepEqual(args, tt.args) {
			t.Errorf("parseLine(%q) = (%q, %v), want (%q, %v)", tt.line, name, args, tt.name, tt.args)
		}
	}
}

func TestParseLine_Errors(t *testing.T) {
	lines := []string{
		`LOGIN "alice`,
		"LOGIN alice,",
		`LOGIN "alice" extra`,
	}

	for _, line := range lines {
		if _, _, err := parseLine(line); err == nil {
			t.Errorf("parseLine(%q) should have failed", line)
		}
	}
}

func newTestShell(t *testing.T) (*shell, *consoletest.Console, *storage.Storage) {
	t.Helper()

	st := storage.New()
	if err := st.RegisterScheme("memory", memory.NewDriveFactory()); err != nil {
		t.Fatalf("RegisterScheme failed: %v", err)
	}
	if err := st.Mount("MEMORY", "memory://"); err != nil {
		t.Fatalf("Mount failed: %v", err)
	}
	if err := st.CD("MEMORY:/"); err != nil {
		t.Fatalf("CD failed: %v", err)
	}

	cons := consoletest.New()
	return newShell(cons, st, map[string]cloud.Command{}), cons, st
}

func TestShell_RunUntilExit(t *testing.T) {
	sh, cons, _ := newTestShell(t)
	cons.AddInput("PWD", "EXIT")

	if err := sh.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	out := strings.Join(cons.Output(), "\n")
	if !strings.Contains(out, "MEMORY:/> PWD") {
		t.Errorf("Expected the prompt to show the current drive:\n%s", out)
	}
	if !strings.Contains(out, "    MEMORY:/") {
		t.Errorf("Expected PWD output:\n%s", out)
	}
}

func TestShell_ReportsErrorsAndContinues(t *testing.T) {
	sh, cons, _ := newTestShell(t)
	cons.AddInput("BOGUS", "PWD", "EXIT")

	if err := sh.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	out := strings.Join(cons.Output(), "\n")
	if !strings.Contains(out, "ERROR: unknown command BOGUS; try HELP") {
		t.Errorf("Expected an error report:\n%s", out)
	}
	if !strings.Contains(out, "    MEMORY:/") {
		t.Errorf("Expected the loop to continue past the error:\n%s", out)
	}
}

func TestShell_MountListAndDir(t *testing.T) {
	sh, cons, st := newTestShell(t)
	ctx := context.Background()

	if err := st.Put(ctx, "MEMORY:/HELLO.BAS", []byte("PRINT 1")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if err := sh.dispatch(ctx, "MOUNT", nil); err != nil {
		t.Fatalf("MOUNT failed: %v", err)
	}
	if err := sh.dispatch(ctx, "DIR", nil); err != nil {
		t.Fatalf("DIR failed: %v", err)
	}

	out := strings.Join(cons.Output(), "\n")
	if !strings.Contains(out, "MEMORY") || !strings.Contains(out, "memory://") {
		t.Errorf("Expected the mount table in output:\n%s", out)
	}
	if !strings.Contains(out, "HELLO.BAS") {
		t.Errorf("Expected HELLO.BAS in the listing:\n%s", out)
	}
	if !strings.Contains(out, "1 file(s), 7 bytes") {
		t.Errorf("Expected the listing summary:\n%s", out)
	}
}

func TestShell_TypeAndDel(t *testing.T) {
	sh, cons, st := newTestShell(t)
	ctx := context.Background()

	if err := st.Put(ctx, "MEMORY:/HELLO.BAS", []byte("PRINT 1\nPRINT 2\n")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if err := sh.dispatch(ctx, "TYPE", []string{"HELLO.BAS"}); err != nil {
		t.Fatalf("TYPE failed: %v", err)
	}
	want := []string{"PRINT 1", "PRINT 2"}
	if got := cons.Output(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	if err := sh.dispatch(ctx, "DEL", []string{"HELLO.BAS"}); err != nil {
		t.Fatalf("DEL failed: %v", err)
	}
	if _, err := st.Get(ctx, "MEMORY:/HELLO.BAS"); err == nil {
		t.Error("Expected the file to be gone")
	}
}

func TestShell_DispatchPrefersRegisteredCommands(t *testing.T) {
	sh, _, _ := newTestShell(t)
	called := false
	sh.commands["LOGIN"] = commandFunc(func(ctx context.Context, args []string) error {
		called = true
		return nil
	})

	if err := sh.dispatch(context.Background(), "LOGIN", []string{"alice"}); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if !called {
		t.Error("Expected the registered command to be invoked")
	}
}

// commandFunc adapts a function to the cloud.Command interface.
type commandFunc func(ctx context.Context, args []string) error

func (f commandFunc) Exec(ctx context.Context, args []string) error {
	return f(ctx, args)
}
