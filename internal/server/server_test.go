package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperifyio/tagscrape/internal/fetch"
	"github.com/hyperifyio/tagscrape/internal/scrape"
)

func setupRouter(t *testing.T, opts Options) http.Handler {
	t.Helper()
	return NewRouter(scrape.New(&fetch.Client{Timeout: 5 * time.Second}), opts)
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	h := setupRouter(t, Options{Version: "1.2.3"})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)

	_, err := uuid.Parse(w.Header().Get(RequestIDHeader))
	assert.NoError(t, err)
}

func TestRequestID_ReusesValidIncoming(t *testing.T) {
	h := setupRouter(t, Options{})
	id := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tags", nil)
	req.Header.Set(RequestIDHeader, id)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, id, w.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/tags", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.NotEqual(t, "not-a-uuid", w.Header().Get(RequestIDHeader))
}

func TestTags(t *testing.T) {
	h := setupRouter(t, Options{})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/tags", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp TagsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"p", "h1", "h2", "a", "div", "span"}, resp.Tags)
	assert.Equal(t, "p", resp.Default)
}

func TestExtract_Success(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body><p>Hello</p><p>  </p><p>World</p></body></html>"))
	}))
	defer page.Close()
	h := setupRouter(t, Options{})

	w := postJSON(t, h, "/api/v1/extract", ExtractRequest{URL: page.URL, Tag: "p"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp ExtractResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, []string{"Hello", "World"}, resp.Items)
	assert.Nil(t, resp.Error)
}

func TestExtract_NoMatchesIsEmptyList(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<p>x</p>"))
	}))
	defer page.Close()
	h := setupRouter(t, Options{})

	w := postJSON(t, h, "/api/v1/extract", ExtractRequest{URL: page.URL, Tag: "h1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"items":[]`)
	assert.Contains(t, w.Body.String(), `"count":0`)
}

func TestExtract_Errors(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()
	h := setupRouter(t, Options{})

	cases := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"missing url", map[string]string{"tag": "p"}, http.StatusBadRequest, ErrCodeInvalidInput},
		{"blank url", ExtractRequest{URL: "  "}, http.StatusBadRequest, ErrCodeInvalidInput},
		{"upstream status", ExtractRequest{URL: upstream.URL}, http.StatusBadGateway, ErrCodeHTTP},
		{"unreachable", ExtractRequest{URL: "http://nonexistent.invalid"}, http.StatusBadGateway, ErrCodeNetwork},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(t, h, "/api/v1/extract", tc.body)
			require.Equal(t, tc.status, w.Code, w.Body.String())

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.code, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.Message)
		})
	}
}

func TestReport_ReturnsPDF(t *testing.T) {
	h := setupRouter(t, Options{})

	w := postJSON(t, h, "/api/v1/report", ReportRequest{Items: []string{"A", "B", "C"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "scraped-data.pdf")
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF-"))
}

func TestReport_NoData(t *testing.T) {
	h := setupRouter(t, Options{})

	w := postJSON(t, h, "/api/v1/report", ReportRequest{})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), ErrCodeNoData)
}

func TestReport_BadPageSize(t *testing.T) {
	h := setupRouter(t, Options{})

	w := postJSON(t, h, "/api/v1/report", ReportRequest{Items: []string{"x"}, PageSize: "B5"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReport_BodyTooLarge(t *testing.T) {
	h := setupRouter(t, Options{MaxRequestBytes: 1024})

	w := postJSON(t, h, "/api/v1/report", ReportRequest{Items: []string{strings.Repeat("x", 4096)}})
	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), ErrCodeTooLarge)

	w = postJSON(t, h, "/api/v1/report", ReportRequest{Items: []string{"small"}})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestExtract_BodyTooLarge(t *testing.T) {
	h := setupRouter(t, Options{MaxRequestBytes: 64})

	w := postJSON(t, h, "/api/v1/extract", ExtractRequest{URL: "http://example.com/" + strings.Repeat("a", 256)})
	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), ErrCodeTooLarge)
}

func TestRateLimit(t *testing.T) {
	h := setupRouter(t, Options{RateLimitRPS: 0.001, RateLimitBurst: 1})

	first := postJSON(t, h, "/api/v1/report", ReportRequest{Items: []string{"x"}})
	require.Equal(t, http.StatusOK, first.Code)

	second := postJSON(t, h, "/api/v1/report", ReportRequest{Items: []string{"x"}})
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), ErrCodeRateLimited)

	// Probes are not limited.
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiter_EvictsIdle(t *testing.T) {
	l := newRateLimiter(1, 1)
	now := time.Now()
	l.get("a", now.Add(-2*time.Hour))
	l.swept = now.Add(-10 * time.Minute)
	l.get("b", now)

	_, ok := l.limiters["a"]
	assert.False(t, ok)
	assert.Len(t, l.limiters, 1)
}

func TestServe_StopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	srv := &http.Server{Addr: addr, Handler: setupRouter(t, Options{})}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, srv) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/api/v1/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
