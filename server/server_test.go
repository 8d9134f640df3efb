package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/ByLCY/justify/cache"
	"github.com/ByLCY/justify/internal/pipeline"
	"github.com/ByLCY/justify/layout"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("cache: %v", err)
	}
	srv := httptest.NewServer(New(pipeline.NewRunner(nil, c, log.New(io.Discard))).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Fatalf("missing %s header", RequestIDHeader)
	}
}

func TestLayoutEndpoint(t *testing.T) {
	srv := newTestServer(t)
	body := `{"text":"hello world foo","width":11}`

	resp := post(t, srv, "/v1/layout", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Cache") != "miss" {
		t.Fatalf("first request should miss the cache")
	}
	var res layout.Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Lines) != 2 || res.Lines[0].Content != "hello world" {
		t.Fatalf("lines = %+v", res.Lines)
	}

	again := post(t, srv, "/v1/layout", body)
	if again.Header.Get("X-Cache") != "hit" {
		t.Fatalf("second request should hit the cache")
	}
}

func TestLayoutItemsWithInfinity(t *testing.T) {
	srv := newTestServer(t)
	body := `{"width":3,"algorithm":"first-fit","threshold":"inf","items":[
		{"kind":0,"width":1},{"kind":0,"width":1},{"kind":0,"width":1},
		{"kind":1,"width":1,"stretch":1},
		{"kind":0,"width":1},{"kind":0,"width":1},{"kind":0,"width":1},
		{"kind":1,"stretch":"inf"},
		{"kind":2,"cost":"-inf","flagged":true}]}`
	resp := post(t, srv, "/v1/layout", body)
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d: %s", resp.StatusCode, data)
	}
	var res layout.Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Lines) != 2 || res.Lines[0].BreakAt != 3 || res.Lines[1].BreakAt != 8 {
		t.Fatalf("lines = %+v", res.Lines)
	}
}

func TestLayoutErrors(t *testing.T) {
	srv := newTestServer(t)
	cases := []struct {
		body   string
		status int
	}{
		{`{"text":"incomprehensibilities","width":5}`, http.StatusUnprocessableEntity},
		{`{"width":5}`, http.StatusBadRequest},
		{`{"text":"x","algorithm":"random"}`, http.StatusBadRequest},
		{`{"source":"width 3\nfrobnicate\n"}`, http.StatusBadRequest},
		{`{"text":"x","colour":"red"}`, http.StatusBadRequest},
		{`not json`, http.StatusBadRequest},
	}
	for _, c := range cases {
		resp := post(t, srv, "/v1/layout", c.body)
		if resp.StatusCode != c.status {
			t.Fatalf("%s: status = %d, want %d", c.body, resp.StatusCode, c.status)
		}
		var e errorBody
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Error == "" || e.RequestID == "" {
			t.Fatalf("%s: error body = %+v, %v", c.body, e, err)
		}
	}
}

func TestRequestIDPassthrough(t *testing.T) {
	srv := newTestServer(t)
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got != "abc-123" {
		t.Fatalf("request id = %q", got)
	}
}

func TestGraphEndpoint(t *testing.T) {
	srv := newTestServer(t)
	body := `{"text":"aaa bbb ccc ddd","width":7,"measure":"chars","threshold":"inf"}`

	resp := post(t, srv, "/v1/graph?format=dot&detailed=true", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	data, _ := io.ReadAll(resp.Body)
	if !strings.HasPrefix(string(data), "digraph G {") {
		t.Fatalf("not DOT: %s", data)
	}

	svg := post(t, srv, "/v1/graph", body)
	if svg.StatusCode != http.StatusOK || svg.Header.Get("Content-Type") != "image/svg+xml" {
		t.Fatalf("svg status = %d type = %s", svg.StatusCode, svg.Header.Get("Content-Type"))
	}
}
