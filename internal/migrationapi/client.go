package migrationapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RequestIDHeader carries a per-request identifier so backend logs can be
// correlated with dashboard logs.
const RequestIDHeader = "X-Request-ID"

const (
	pathVersions     = "/api/migrations/versions"
	pathStatus       = "/api/migrations/status"
	pathBackups      = "/api/backups"
	pathUpload       = "/api/migrations/upload"
	pathApply        = "/api/migrations/apply"
	pathRollback     = "/api/migrations/rollback"
	pathBackupCreate = "/api/backups/create"
)

// Client defines the operations offered by the migration management API.
// This interface enables dependency injection and testing with fake implementations.
type Client interface {
	Versions(ctx context.Context) (VersionsResponse, error)
	Status(ctx context.Context) (StatusResponse, error)
	Backups(ctx context.Context) (BackupsResponse, error)
	Upload(ctx context.Context, req UploadRequest) (UploadResponse, error)
	Apply(ctx context.Context) (ApplyResponse, error)
	Rollback(ctx context.Context, req RollbackRequest) (RollbackResponse, error)
	CreateBackup(ctx context.Context) (BackupCreateResponse, error)
}

// HTTPClient talks JSON over HTTP to the migration management API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	log        logrus.FieldLogger
}

// NewHTTPClient creates a client for the API rooted at baseURL.
// A zero timeout means requests are only bounded by their context.
//
// Parameters:
//   - baseURL: scheme and host of the API, e.g. "http://localhost:8000"
//   - timeout: per-request timeout applied by the underlying http.Client
//   - log: logger used for request tracing at debug level
func NewHTTPClient(baseURL string, timeout time.Duration, log logrus.FieldLogger) *HTTPClient {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// BaseURL returns the API root this client targets.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

func (c *HTTPClient) Versions(ctx context.Context) (VersionsResponse, error) {
	var out VersionsResponse
	err := c.requestJSON(ctx, http.MethodGet, pathVersions, nil, &out)
	return out, err
}

func (c *HTTPClient) Status(ctx context.Context) (StatusResponse, error) {
	var out StatusResponse
	err := c.requestJSON(ctx, http.MethodGet, pathStatus, nil, &out)
	return out, err
}

func (c *HTTPClient) Backups(ctx context.Context) (BackupsResponse, error) {
	var out BackupsResponse
	err := c.requestJSON(ctx, http.MethodGet, pathBackups, nil, &out)
	return out, err
}

func (c *HTTPClient) Upload(ctx context.Context, req UploadRequest) (UploadResponse, error) {
	var out UploadResponse
	err := c.requestJSON(ctx, http.MethodPost, pathUpload, req, &out)
	return out, err
}

func (c *HTTPClient) Apply(ctx context.Context) (ApplyResponse, error) {
	var out ApplyResponse
	err := c.requestJSON(ctx, http.MethodPost, pathApply, nil, &out)
	return out, err
}

func (c *HTTPClient) Rollback(ctx context.Context, req RollbackRequest) (RollbackResponse, error) {
	var out RollbackResponse
	err := c.requestJSON(ctx, http.MethodPost, pathRollback, req, &out)
	return out, err
}

func (c *HTTPClient) CreateBackup(ctx context.Context) (BackupCreateResponse, error) {
	var out BackupCreateResponse
	err := c.requestJSON(ctx, http.MethodPost, pathBackupCreate, nil, &out)
	return out, err
}

// requestJSON sends in as a JSON body (when non-nil) and decodes a successful
// response into out. Any non-2xx status is returned as *Error.
func (c *HTTPClient) requestJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WithFields(logrus.Fields{"method": method, "path": path, "request_id": requestID}).
			WithError(err).Error("API call failed")
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	c.log.WithFields(logrus.Fields{
		"method":     method,
		"path":       path,
		"status":     resp.StatusCode,
		"request_id": requestID,
		"duration":   time.Since(start),
	}).Debug("API call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeError(resp.StatusCode, data)
		c.log.WithFields(logrus.Fields{"method": method, "path": path, "request_id": requestID}).
			WithError(apiErr).Error("API call failed")
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}
