package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const (
	testAPIKey    = "test-key"
	testJobID     = "job-1"
	testUploadURL = "https://cdn.assemblyai.test/upload/abc"
)

const serviceWords = `[
	{"text": "hello", "start": 0, "end": 480, "confidence": 0.98},
	{"text": "world", "start": 500, "end": 900, "confidence": 0.95}
]`

func runCommand(t *testing.T, cmd *cobra.Command, args ...string) (stdout string, stderr string, code int) {
	t.Helper()

	outBuf := new(bytes.Buffer)
	errBuf := new(bytes.Buffer)

	// A nil slice would make cobra fall back to the test binary's own args.
	if args == nil {
		args = []string{}
	}

	cmd.SetOut(outBuf)
	cmd.SetErr(errBuf)
	cmd.SetArgs(args)

	code = Execute(context.Background(), cmd)
	return outBuf.String(), errBuf.String(), code
}

// fakeAPI answers upload, submit and status requests like the v2 REST API.
// Status responses walk through statuses and repeat the last one.
type fakeAPI struct {
	mu       sync.Mutex
	statuses []string
	words    string
	requests int
	polls    int
	payload  map[string]any
	authz    string
}

func newFakeAPI(t *testing.T, statuses ...string) (*fakeAPI, *httptest.Server) {
	t.Helper()

	api := &fakeAPI{statuses: statuses, words: serviceWords}
	server := httptest.NewServer(http.HandlerFunc(api.serveHTTP))
	t.Cleanup(server.Close)
	return api, server
}

func (f *fakeAPI) serveHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests++
	f.authz = r.Header.Get("authorization")

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/v2/upload":
		_, _ = io.Copy(io.Discard, r.Body)
		writeJSON(w, http.StatusOK, `{"upload_url": "`+testUploadURL+`"}`)
	case r.Method == http.MethodPost && r.URL.Path == "/v2/transcript":
		_ = json.NewDecoder(r.Body).Decode(&f.payload)
		writeJSON(w, http.StatusOK, `{"id": "`+testJobID+`", "status": "queued"}`)
	case r.Method == http.MethodGet && r.URL.Path == "/v2/transcript/"+testJobID:
		status := f.statuses[min(f.polls, len(f.statuses)-1)]
		f.polls++
		if status == "completed" {
			writeJSON(w, http.StatusOK, `{"id": "`+testJobID+`", "status": "completed", "text": "Hello world.", "words": `+f.words+`}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"id": "`+testJobID+`", "status": "`+status+`"}`)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeAPI) setWords(words string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.words = words
}

func (f *fakeAPI) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests
}

func (f *fakeAPI) pollCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.polls
}

func (f *fakeAPI) lastPayload() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.payload
}

func (f *fakeAPI) authorization() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.authz
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// fakeClock advances only when sleep is called.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return nil
}

// newTestApp returns state wired to env and an explicit config file in a temp
// dir, so no user config or dotenv file leaks in.
func newTestApp(t *testing.T, env map[string]string) *appState {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("upload_timeout: 10\nsubmit_timeout: 10\npoll_request_timeout: 5\n"), 0o644))

	clock := &fakeClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	return &appState{
		noProgress: true,
		configPath: configPath,
		getenv:     func(key string) string { return env[key] },
		sleep:      clock.Sleep,
		now:        clock.Now,
	}
}

func serviceEnv(server *httptest.Server) map[string]string {
	return map[string]string{
		"AAI_API_KEY":  testAPIKey,
		"AAI_BASE_URL": server.URL + "/v2",
	}
}

func writeAudio(t *testing.T, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("RIFF....WAVEfmt fake audio bytes"), 0o644))
	return path
}
