package cloud

import (
	"context"
	"errors"
	"testing"
)

func TestLogin_WithExplicitPassword(t *testing.T) {
	service, _, st, commands := newCommandHarness(t)

	err := commands["LOGIN"].Exec(context.Background(), []string{"alice", "secret123"})
	if err != nil {
		t.Fatalf("LOGIN failed: %v", err)
	}

	if service.loginCalls != 1 {
		t.Errorf("Expected 1 login call, got %d", service.loginCalls)
	}
	if uri, ok := st.Mounted()["CLOUD"]; !ok || uri != "cloud://alice" {
		t.Errorf("Expected CLOUD mounted at cloud://alice, got %v", st.Mounted())
	}
}

func TestLogin_ReadsPasswordWithMasking(t *testing.T) {
	service, cons, _, commands := newCommandHarness(t)
	cons.AddInput("secret123")

	err := commands["LOGIN"].Exec(context.Background(), []string{"alice"})
	if err != nil {
		t.Fatalf("LOGIN failed: %v", err)
	}
	if !service.loggedIn {
		t.Error("Expected an active session")
	}

	found := false
	for _, line := range cons.Output() {
		if line == "Password: *********" {
			found = true
		}
		if line == "Password: secret123" {
			t.Error("Password was echoed in the clear")
		}
	}
	if !found {
		t.Errorf("Expected a masked password prompt, got %v", cons.Output())
	}
}

func TestLogin_DisplaysMotd(t *testing.T) {
	service, cons, _, commands := newCommandHarness(t)
	service.loginResponse.Motd = []string{"Welcome back!", "Maintenance on Sunday."}

	err := commands["LOGIN"].Exec(context.Background(), []string{"alice", "secret123"})
	if err != nil {
		t.Fatalf("LOGIN failed: %v", err)
	}

	out := cons.Output()
	wantLines := []string{
		"----- BEGIN SERVER MOTD -----",
		"Welcome back!",
		"Maintenance on Sunday.",
		"-----  END SERVER MOTD  -----",
	}
	for _, want := range wantLines {
		found := false
		for _, line := range out {
			if line == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected line %q in output %v", want, out)
		}
	}
}

func TestLogin_SkipsMotdOnNarrowConsole(t *testing.T) {
	service, cons, _, commands := newCommandHarness(t)
	service.loginResponse.Motd = []string{"Welcome back!"}
	cons.SetWidth(40)

	err := commands["LOGIN"].Exec(context.Background(), []string{"alice", "secret123"})
	if err != nil {
		t.Fatalf("LOGIN failed: %v", err)
	}

	for _, line := range cons.Output() {
		if line == "----- BEGIN SERVER MOTD -----" {
			t.Error("MOTD must be skipped on narrow consoles")
		}
	}
}

func TestLogin_RejectsSecondLogin(t *testing.T) {
	_, _, _, commands := newCommandHarness(t)
	ctx := context.Background()

	if err := commands["LOGIN"].Exec(ctx, []string{"alice", "secret123"}); err != nil {
		t.Fatalf("LOGIN failed: %v", err)
	}

	err := commands["LOGIN"].Exec(ctx, []string{"bob", "secret456"})
	var usageErr *UsageError
	if !errors.As(err, &usageErr) {
		t.Fatalf("Expected UsageError, got: %v", err)
	}
}

func TestLogin_Arity(t *testing.T) {
	_, _, _, commands := newCommandHarness(t)

	for _, args := range [][]string{nil, {"a", "b", "c"}} {
		err := commands["LOGIN"].Exec(context.Background(), args)
		var usageErr *UsageError
		if !errors.As(err, &usageErr) {
			t.Errorf("LOGIN with %d args: expected UsageError, got: %v", len(args), err)
		}
	}
}

func TestLogin_ServiceErrorLeavesNothingMounted(t *testing.T) {
	service, _, st, commands := newCommandHarness(t)
	service.loginErr = errors.New("unknown user")

	err := commands["LOGIN"].Exec(context.Background(), []string{"alice", "secret123"})
	if err == nil {
		t.Fatal("Expected LOGIN to fail")
	}
	if _, ok := st.Mounted()["CLOUD"]; ok {
		t.Error("Failed login must not mount the CLOUD drive")
	}
}
