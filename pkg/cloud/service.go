// Package cloud implements the cloud side of the storage layer: the
// authentication service contract and its HTTP client, the drive backend for
// the "cloud" scheme, and the LOGIN, LOGOUT, SIGNUP and SHARE commands that
// orchestrate them.
package cloud

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/ABelliqueux/endbasic/pkg/storage"
)

// AccessToken is the opaque proof of authentication returned by a successful
// login. It exists between a login and the matching logout.
type AccessToken string

// LoginResponse is the service's answer to a successful login.
type LoginResponse struct {
	// AccessToken authenticates all subsequent requests in the session.
	AccessToken AccessToken `json:"access_token"`

	// Motd carries the optional message-of-the-day lines to display.
	Motd []string `json:"motd"`
}

// SignupRequest is a fully-validated account creation request.
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8"`
	Email    string `json:"email" validate:"required,email"`

	// PromotionalEmail records whether the user opted into promotional
	// messages. Defaults to false.
	PromotionalEmail bool `json:"promotional_email"`
}

// validate is the singleton validator instance.
var validate = validator.New()

// Validate checks the request against its struct tags. The SIGNUP command
// enforces stronger interactive password rules before ever building the
// request; this is a last line of defense before the wire.
func (r *SignupRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid signup request: %w", err)
	}
	return nil
}

// Service is the authentication and file service consumed by the cloud
// drive and the session commands.
//
// Session state machine: the service holds at most one active session.
// Login while logged in and Logout while logged out are caller misuse; the
// commands guard against both with IsLoggedIn before calling.
type Service interface {
	// Login authenticates and establishes the session.
	Login(ctx context.Context, username, password string) (*LoginResponse, error)

	// Logout invalidates the current session.
	Logout(ctx context.Context) error

	// Signup submits an account creation request. It does not log in.
	Signup(ctx context.Context, req *SignupRequest) error

	// IsLoggedIn reports whether a session is active.
	IsLoggedIn() bool

	// LoggedInUsername returns the authenticated identity, if any.
	LoggedInUsername() (string, bool)

	// GetFiles lists the files in a user's drive.
	GetFiles(ctx context.Context, username string) (*storage.DriveFiles, error)

	// GetFile downloads one file from a user's drive.
	GetFile(ctx context.Context, username, filename string) ([]byte, error)

	// PutFile uploads one file to a user's drive.
	PutFile(ctx context.Context, username, filename string, content []byte) error

	// DeleteFile removes one file from a user's drive.
	DeleteFile(ctx context.Context, username, filename string) error

	// GetFileACLs fetches the reader ACLs of one file.
	GetFileACLs(ctx context.Context, username, filename string) (storage.FileAcls, error)

	// UpdateFileACLs applies reader additions and removals to one file.
	UpdateFileACLs(ctx context.Context, username, filename string, add, remove storage.FileAcls) error
}
