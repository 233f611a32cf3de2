package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Migration-Dashboard/internal/migrationapi"
)

// API paths served by FakeAPI.
const (
	PathVersions     = "/api/migrations/versions"
	PathStatus       = "/api/migrations/status"
	PathBackups      = "/api/backups"
	PathUpload       = "/api/migrations/upload"
	PathApply        = "/api/migrations/apply"
	PathRollback     = "/api/migrations/rollback"
	PathBackupCreate = "/api/backups/create"
)

type fakeFailure struct {
	status int
	body   string
}

// FakeAPI is an in-process migration management API served over httptest.
// It records every request and can be told to fail individual endpoints.
//
// Example usage:
//
//	api := testutil.NewFakeAPI(t)
//	api.SetStatus(testutil.StatusOf(2, 1))
//	api.Fail(testutil.PathApply, http.StatusInternalServerError, `{"detail":"boom"}`)
//	client := api.Client()
type FakeAPI struct {
	server *httptest.Server

	mu               sync.Mutex
	versions         migrationapi.VersionsResponse
	status           migrationapi.StatusResponse
	backups          migrationapi.BackupsResponse
	uploadResult     migrationapi.UploadResponse
	applyResult      migrationapi.ApplyResponse
	rollbackResult   migrationapi.RollbackResponse
	backupResult     migrationapi.BackupCreateResponse
	failures         map[string]fakeFailure
	calls            map[string]int
	uploads          []migrationapi.UploadRequest
	rollbacks        []migrationapi.RollbackRequest
	requestIDs       []string
	lastContentTypes []string
}

// NewFakeAPI starts a FakeAPI populated with a small default data set:
// two applied versions, one pending version and one backup.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()

	created := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	f := &FakeAPI{
		versions: VersionsOf(
			NewVersion("001").WithDescription("create users").Build(),
			NewVersion("002").WithDescription("add email index").Build(),
			NewVersion("003").WithDescription("add orders").Pending().Build(),
		),
		status:  StatusOf(2, 1),
		backups: migrationapi.BackupsResponse{Backups: []migrationapi.BackupRecord{NewBackup("backup_20240115.sql", 1536, created)}},
		uploadResult: migrationapi.UploadResponse{
			Filename: "V004__test.sql",
			Branch:   "migration/004",
			PRURL:    "https://github.com/example/repo/pull/42",
			PRNumber: 42,
		},
		applyResult: migrationapi.ApplyResponse{
			Message:    "Applied 1 migration",
			BackupFile: "backup_pre_apply.sql",
		},
		rollbackResult: migrationapi.RollbackResponse{
			Message:    "Rolled back to 001",
			BackupUsed: "backup_20240115.sql",
		},
		backupResult: migrationapi.BackupCreateResponse{
			Filename:  "backup_new.sql",
			Size:      2048,
			CreatedAt: migrationapi.Timestamp{Time: created},
		},
		failures: make(map[string]fakeFailure),
		calls:    make(map[string]int),
	}

	r := chi.NewRouter()
	r.Get(PathVersions, f.serve(PathVersions, func(*http.Request) any { return f.versions }))
	r.Get(PathStatus, f.serve(PathStatus, func(*http.Request) any { return f.status }))
	r.Get(PathBackups, f.serve(PathBackups, func(*http.Request) any { return f.backups }))
	r.Post(PathUpload, f.serve(PathUpload, func(req *http.Request) any {
		var in migrationapi.UploadRequest
		_ = json.NewDecoder(req.Body).Decode(&in)
		f.uploads = append(f.uploads, in)
		return f.uploadResult
	}))
	r.Post(PathApply, f.serve(PathApply, func(*http.Request) any { return f.applyResult }))
	r.Post(PathRollback, f.serve(PathRollback, func(req *http.Request) any {
		var in migrationapi.RollbackRequest
		_ = json.NewDecoder(req.Body).Decode(&in)
		f.rollbacks = append(f.rollbacks, in)
		return f.rollbackResult
	}))
	r.Post(PathBackupCreate, f.serve(PathBackupCreate, func(*http.Request) any { return f.backupResult }))

	f.server = httptest.NewServer(r)
	t.Cleanup(f.server.Close)

	return f
}

func (f *FakeAPI) serve(path string, body func(*http.Request) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.calls[path]++
		f.requestIDs = append(f.requestIDs, r.Header.Get(migrationapi.RequestIDHeader))
		f.lastContentTypes = append(f.lastContentTypes, r.Header.Get("Content-Type"))

		if failure, ok := f.failures[path]; ok {
			f.mu.Unlock()
			w.WriteHeader(failure.status)
			_, _ = w.Write([]byte(failure.body))
			return
		}

		out := body(r)
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	}
}

// URL returns the base URL of the fake API.
func (f *FakeAPI) URL() string {
	return f.server.URL
}

// Client returns an HTTP client pointed at the fake API.
func (f *FakeAPI) Client() *migrationapi.HTTPClient {
	return migrationapi.NewHTTPClient(f.server.URL, 5*time.Second, DiscardLogger())
}

// Fail makes path respond with status and the raw body until Recover is called.
func (f *FakeAPI) Fail(path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[path] = fakeFailure{status: status, body: body}
}

// Recover clears a failure set with Fail.
func (f *FakeAPI) Recover(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failures, path)
}

// Calls returns how many requests reached path.
func (f *FakeAPI) Calls(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

// ResetCalls zeroes all call counters.
func (f *FakeAPI) ResetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = make(map[string]int)
}

// Uploads returns the decoded bodies of all upload requests.
func (f *FakeAPI) Uploads() []migrationapi.UploadRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]migrationapi.UploadRequest(nil), f.uploads...)
}

// Rollbacks returns the decoded bodies of all rollback requests.
func (f *FakeAPI) Rollbacks() []migrationapi.RollbackRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]migrationapi.RollbackRequest(nil), f.rollbacks...)
}

// RequestIDs returns the request id header of every request, in arrival order.
func (f *FakeAPI) RequestIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requestIDs...)
}

// ContentTypes returns the Content-Type header of every request, in arrival order.
func (f *FakeAPI) ContentTypes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.lastContentTypes...)
}

func (f *FakeAPI) SetVersions(v migrationapi.VersionsResponse) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.versions = v
}

func (f *FakeAPI) SetStatus(s migrationapi.StatusResponse) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = s
}

func (f *FakeAPI) SetBackups(b ...migrationapi.BackupRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b == nil {
		b = []migrationapi.BackupRecord{}
	}
	f.backups = migrationapi.BackupsResponse{Backups: b}
}

func (f *FakeAPI) SetUploadResult(r migrationapi.UploadResponse) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploadResult = r
}

func (f *FakeAPI) SetApplyResult(r migrationapi.ApplyResponse) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applyResult = r
}

func (f *FakeAPI) SetRollbackResult(r migrationapi.RollbackResponse) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rollbackResult = r
}

func (f *FakeAPI) SetBackupResult(r migrationapi.BackupCreateResponse) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.backupResult = r
}
