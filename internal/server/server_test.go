// SPDX-License-Identifier: MPL-2.0

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	rt "github.com/GangGreenTemperTatum/robopages-cli/internal/runtime"
	"github.com/GangGreenTemperTatum/robopages-cli/pkg/book"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExecutor answers every call with a canned result keyed by
// function name.
type fakeExecutor struct {
	mu      sync.Mutex
	results map[string]*rt.Result
	errs    map[string]error
	calls   []string
}

func (f *fakeExecutor) Execute(_ context.Context, fn *book.Function, _ map[string]string, _ rt.Options) (*rt.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fn.Name)
	f.mu.Unlock()
	if err, ok := f.errs[fn.Name]; ok {
		return nil, err
	}
	if res, ok := f.results[fn.Name]; ok {
		return res, nil
	}
	return &rt.Result{}, nil
}

func testBook() *book.Book {
	return &book.Book{Pages: []*book.Page{{
		Name: "Setup",
		Functions: []*book.Function{
			{Name: "install", Body: book.Body{Tag: "bash", Text: "apt-get install -y nmap"}},
			{Name: "clean", Body: book.Body{Tag: "bash", Text: "rm -rf target/"}},
		},
	}}}
}

func newTestServer(t *testing.T, exec Executor) *Server {
	t.Helper()
	s := New(Config{Workers: 2}, func() (*book.Book, error) { return testBook(), nil }, exec)
	require.NoError(t, s.reload())
	return s
}

func TestHandleToolSet(t *testing.T) {
	s := newTestServer(t, &fakeExecutor{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var entries []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "function", entries[0]["type"])
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t, &fakeExecutor{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 2, body["functions"])
}

func TestHandleProcess(t *testing.T) {
	exec := &fakeExecutor{results: map[string]*rt.Result{
		"install": {ExitCode: 0, Output: "installed\n"},
		"clean":   {ExitCode: 1, Output: "denied\n"},
	}}
	s := newTestServer(t, exec)

	payload := `[{"name":"install","arguments":{}},{"name":"clean"},{"name":"missing"}]`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/process", bytes.NewBufferString(payload))
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var responses []toolResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &responses))
	require.Len(t, responses, 3)

	// Responses keep call order regardless of concurrent execution.
	assert.Equal(t, "install", responses[0].Name)
	assert.Equal(t, "installed\n", responses[0].Content)
	assert.Empty(t, responses[0].Error)
	assert.Equal(t, "tool", responses[0].Role)

	assert.Equal(t, "denied\n", responses[1].Content)
	assert.Equal(t, "exit status 1", responses[1].Error)

	assert.Contains(t, responses[2].Error, "unknown tool")
	assert.NotContains(t, exec.calls, "missing")
}

func TestHandleProcessInvalidBody(t *testing.T) {
	s := newTestServer(t, &fakeExecutor{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/process", bytes.NewBufferString("{not json"))
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestIDEchoedAndGenerated(t *testing.T) {
	s := newTestServer(t, &fakeExecutor{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "fixed-id")
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "fixed-id", rec.Header().Get(requestIDHeader))

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, &fakeExecutor{})

	// Generate one observed request first.
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "robopages_http_requests_total")
}

func TestReloadFailureKeepsPreviousBook(t *testing.T) {
	fail := false
	loader := func() (*book.Book, error) {
		if fail {
			return nil, &book.IOError{Path: "gone"}
		}
		return testBook(), nil
	}
	s := New(Config{Workers: 1}, loader, &fakeExecutor{})
	require.NoError(t, s.reload())

	fail = true
	require.Error(t, s.reload())

	b, _ := s.current()
	require.NotNil(t, b)
	assert.Equal(t, 2, b.FunctionCount())
}

func TestStartBindsAndShutsDown(t *testing.T) {
	s := New(Config{Address: "127.0.0.1:0", Workers: 1},
		func() (*book.Book, error) { return testBook(), nil }, &fakeExecutor{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	require.Eventually(t, func() bool { return s.Addr() != "" }, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Get("http://" + s.Addr() + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	require.NoError(t, <-done)
}
