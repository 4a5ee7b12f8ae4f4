package cloud

import (
	"context"
	"fmt"
	"testing"

	"github.com/ABelliqueux/endbasic/pkg/console/consoletest"
	"github.com/ABelliqueux/endbasic/pkg/storage"
)

// mockService is a scripted Service for command tests. File operations are
// backed by a per-user map so the cloud drive can be exercised end to end
// without a server.
type mockService struct {
	loggedIn bool
	username string

	loginResponse *LoginResponse
	loginErr      error
	logoutErr     error
	signupErr     error

	loginCalls  int
	logoutCalls int
	signups     []*SignupRequest

	files map[string]map[string][]byte
	acls  map[string]storage.FileAcls
}

var _ Service = (*mockService)(nil)

func newMockService() *mockService {
	return &mockService{
		loginResponse: &LoginResponse{AccessToken: "token"},
		files:         make(map[string]map[string][]byte),
		acls:          make(map[string]storage.FileAcls),
	}
}

func (m *mockService) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	m.loginCalls++
	if m.loginErr != nil {
		return nil, m.loginErr
	}
	m.loggedIn = true
	m.username = username
	return m.loginResponse, nil
}

func (m *mockService) Logout(ctx context.Context) error {
	m.logoutCalls++
	if m.logoutErr != nil {
		return m.logoutErr
	}
	m.loggedIn = false
	m.username = ""
	return nil
}

func (m *mockService) Signup(ctx context.Context, req *SignupRequest) error {
	if m.signupErr != nil {
		return m.signupErr
	}
	m.signups = append(m.signups, req)
	return nil
}

func (m *mockService) IsLoggedIn() bool {
	return m.loggedIn
}

func (m *mockService) LoggedInUsername() (string, bool) {
	if !m.loggedIn {
		return "", false
	}
	return m.username, true
}

func (m *mockService) GetFiles(ctx context.Context, username string) (*storage.DriveFiles, error) {
	entries := make(map[string]storage.Metadata)
	for name, content := range m.files[username] {
		entries[name] = storage.Metadata{Length: uint64(len(content))}
	}
	return &storage.DriveFiles{Entries: entries}, nil
}

func (m *mockService) GetFile(ctx context.Context, username, filename string) ([]byte, error) {
	content, ok := m.files[username][filename]
	if !ok {
		return nil, fmt.Errorf("file %q: %w", filename, storage.ErrNotFound)
	}
	return content, nil
}

func (m *mockService) PutFile(ctx context.Context, username, filename string, content []byte) error {
	if m.files[username] == nil {
		m.files[username] = make(map[string][]byte)
	}
	m.files[username][filename] = content
	return nil
}

func (m *mockService) DeleteFile(ctx context.Context, username, filename string) error {
	if _, ok := m.files[username][filename]; !ok {
		return fmt.Errorf("file %q: %w", filename, storage.ErrNotFound)
	}
	delete(m.files[username], filename)
	return nil
}

func (m *mockService) aclKey(username, filename string) string {
	return username + "/" + filename
}

func (m *mockService) GetFileACLs(ctx context.Context, username, filename string) (storage.FileAcls, error) {
	if _, ok := m.files[username][filename]; !ok {
		return storage.FileAcls{}, fmt.Errorf("file %q: %w", filename, storage.ErrNotFound)
	}
	return m.acls[m.aclKey(username, filename)], nil
}

func (m *mockService) UpdateFileACLs(ctx context.Context, username, filename string, add, remove storage.FileAcls) error {
	if _, ok := m.files[username][filename]; !ok {
		return fmt.Errorf("file %q: %w", filename, storage.ErrNotFound)
	}

	removed := make(map[string]bool)
	for _, reader := range remove.Readers() {
		removed[reader] = true
	}
	var acls storage.FileAcls
	key := m.aclKey(username, filename)
	current := m.acls[key]
	for _, reader := range current.Readers() {
		if !removed[reader] {
			acls.Add(reader)
		}
	}
	for _, reader := range add.Readers() {
		if !removed[reader] {
			acls.Add(reader)
		}
	}
	m.acls[key] = acls
	return nil
}

// newCommandHarness wires a mock service, a scripted console, and a storage
// manager with the cloud scheme registered, the way the shell does at
// startup.
func newCommandHarness(t *testing.T) (*mockService, *consoletest.Console, *storage.Storage, map[string]Command) {
	t.Helper()

	service := newMockService()
	cons := consoletest.New()
	st := storage.New()
	if err := st.RegisterScheme("cloud", NewDriveFactory(service)); err != nil {
		t.Fatalf("RegisterScheme failed: %v", err)
	}
	commands := AddAll(service, cons, st, "https://repl.example.com/")
	return service, cons, st, commands
}
