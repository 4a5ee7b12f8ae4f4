package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/ABelliqueux/endbasic/pkg/storage"
)

const defaultTimeout = 30 * time.Second

// ErrorResponse is the JSON error shape returned by the service.
type ErrorResponse struct {
	Message string `json:"message"`
}

// ClientConfig configures the HTTP service client.
type ClientConfig struct {
	// BaseURL is the root of the service API, e.g. "https://service.example.com".
	BaseURL string

	// Timeout bounds every request. Zero uses a 30 second default.
	Timeout time.Duration

	// Logger receives request diagnostics. Nil uses slog.Default.
	Logger *slog.Logger

	// HTTPClient overrides the transport, mainly for tests. Nil builds one
	// from Timeout.
	HTTPClient *http.Client
}

// Client is the HTTP implementation of Service.
//
// It holds the session state for this runtime: the access token minted by
// Login and the identity it belongs to. All commands share one Client by
// reference, so there is exactly one session to reason about.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger

	accessToken AccessToken
	username    string
	loggedIn    bool
}

var _ Service = (*Client)(nil)

// NewClient creates a service client. No network traffic happens until the
// first call.
func NewClient(cfg *ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("service base URL cannot be empty")
	}
	baseURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid service base URL %q: %w", cfg.BaseURL, err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger.WithGroup("cloud_client"),
	}, nil
}

// endpoint joins path segments onto the base URL, escaping each one.
func (c *Client) endpoint(segments ...string) string {
	return c.baseURL.JoinPath(segments...).String()
}

// do sends a request and decodes errors into the storage taxonomy. The
// response body is returned for the caller to decode; it is nil for
// no-content responses.
func (c *Client) do(ctx context.Context, method, endpoint string, body []byte) ([]byte, error) {
	return c.doContent(ctx, method, endpoint, "application/json", body)
}

func (c *Client) doContent(ctx context.Context, method, endpoint, contentType string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	if c.loggedIn {
		req.Header.Set("Authorization", "Bearer "+string(c.accessToken))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("request failed", "method", method, "endpoint", endpoint, "error", err)
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("request done", "method", method, "endpoint", endpoint, "status", resp.StatusCode)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return payload, nil
	}
	return nil, c.errorFromResponse(resp.StatusCode, payload)
}

// errorFromResponse maps an HTTP error status onto the storage error
// taxonomy, keeping the service's message for context.
func (c *Client) errorFromResponse(status int, payload []byte) error {
	message := http.StatusText(status)
	var errResp ErrorResponse
	if err := json.Unmarshal(payload, &errResp); err == nil && errResp.Message != "" {
		message = errResp.Message
	}

	switch status {
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", message, storage.ErrNotFound)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%s: %w", message, storage.ErrPermissionDenied)
	case http.StatusConflict:
		return fmt.Errorf("%s: %w", message, storage.ErrAlreadyExists)
	case http.StatusBadRequest:
		return fmt.Errorf("%s: %w", message, storage.ErrInvalidInput)
	default:
		return errors.New(message)
	}
}

// Login authenticates against the service and stores the session token.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	body, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	payload, err := c.do(ctx, http.MethodPost, c.endpoint("api", "login"), body)
	if err != nil {
		return nil, err
	}

	var resp LoginResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, fmt.Errorf("malformed login response: %w", err)
	}

	c.accessToken = resp.AccessToken
	c.username = username
	c.loggedIn = true
	c.logger.Info("logged in", "username", username)
	return &resp, nil
}

// Logout invalidates the session with the service and clears the token.
// Local state is cleared even if the revocation request fails: the token is
// gone from this runtime's point of view either way.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, c.endpoint("api", "logout"), nil)
	c.accessToken = ""
	c.username = ""
	c.loggedIn = false
	return err
}

// Signup submits an account creation request.
func (c *Client) Signup(ctx context.Context, req *SignupRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, http.MethodPost, c.endpoint("api", "signup"), body)
	return err
}

// IsLoggedIn reports whether a session is active.
func (c *Client) IsLoggedIn() bool {
	return c.loggedIn
}

// LoggedInUsername returns the authenticated identity, if any.
func (c *Client) LoggedInUsername() (string, bool) {
	if !c.loggedIn {
		return "", false
	}
	return c.username, true
}

// fileEntry is the JSON shape of one file in a listing.
type fileEntry struct {
	Filename string    `json:"filename"`
	MTime    time.Time `json:"mtime"`
	Length   uint64    `json:"length"`
}

// diskSpace is the JSON shape of a quota or free-space figure.
type diskSpace struct {
	Bytes uint64 `json:"bytes"`
	Files uint64 `json:"files"`
}

// filesResponse is the JSON shape of a drive listing.
type filesResponse struct {
	Files     []fileEntry `json:"files"`
	DiskQuota *diskSpace  `json:"disk_quota,omitempty"`
	DiskFree  *diskSpace  `json:"disk_free,omitempty"`
}

// GetFiles lists the files in a user's drive.
func (c *Client) GetFiles(ctx context.Context, username string) (*storage.DriveFiles, error) {
	payload, err := c.do(ctx, http.MethodGet, c.endpoint("api", "files", username), nil)
	if err != nil {
		return nil, err
	}

	var resp filesResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, fmt.Errorf("malformed file listing: %w", err)
	}

	files := &storage.DriveFiles{Entries: make(map[string]storage.Metadata, len(resp.Files))}
	for _, f := range resp.Files {
		files.Entries[f.Filename] = storage.Metadata{MTime: f.MTime, Length: f.Length}
	}
	if resp.DiskQuota != nil {
		files.DiskQuota = &storage.DiskSpace{Bytes: resp.DiskQuota.Bytes, Files: resp.DiskQuota.Files}
	}
	if resp.DiskFree != nil {
		files.DiskFree = &storage.DiskSpace{Bytes: resp.DiskFree.Bytes, Files: resp.DiskFree.Files}
	}
	return files, nil
}

// GetFile downloads one file.
func (c *Client) GetFile(ctx context.Context, username, filename string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, c.endpoint("api", "files", username, filename), nil)
}

// PutFile uploads one file.
func (c *Client) PutFile(ctx context.Context, username, filename string, content []byte) error {
	endpoint := c.endpoint("api", "files", username, filename)
	_, err := c.doContent(ctx, http.MethodPut, endpoint, "application/octet-stream", content)
	return err
}

// DeleteFile removes one file.
func (c *Client) DeleteFile(ctx context.Context, username, filename string) error {
	_, err := c.do(ctx, http.MethodDelete, c.endpoint("api", "files", username, filename), nil)
	return err
}

// aclsResponse is the JSON shape of a file's ACLs.
type aclsResponse struct {
	Readers []string `json:"readers"`
}

// aclsUpdateRequest is the JSON body of an ACL change.
type aclsUpdateRequest struct {
	Add    []string `json:"add,omitempty"`
	Remove []string `json:"remove,omitempty"`
}

// GetFileACLs fetches the reader ACLs of one file.
func (c *Client) GetFileACLs(ctx context.Context, username, filename string) (storage.FileAcls, error) {
	payload, err := c.do(ctx, http.MethodGet, c.endpoint("api", "files", username, filename, "acls"), nil)
	if err != nil {
		return storage.FileAcls{}, err
	}

	var resp aclsResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return storage.FileAcls{}, fmt.Errorf("malformed ACL response: %w", err)
	}
	return storage.NewFileAcls(resp.Readers...), nil
}

// UpdateFileACLs applies reader additions and removals to one file.
func (c *Client) UpdateFileACLs(ctx context.Context, username, filename string, add, remove storage.FileAcls) error {
	body, err := json.Marshal(aclsUpdateRequest{Add: add.Readers(), Remove: remove.Readers()})
	if err != nil {
		return err
	}
	_, err = c.do(ctx, http.MethodPatch, c.endpoint("api", "files", username, filename, "acls"), body)
	return err
}
