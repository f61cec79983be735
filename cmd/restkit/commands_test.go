package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/page":
			w.Header().Set("Content-Type", "text/html")
			_, _ = io.WriteString(w, `<html><body><h1>Title</h1><ul><li>a</li><li>b</li></ul></body></html>`)
		case "/echo":
			body, _ := io.ReadAll(r.Body)
			w.Header().Set("X-Content-Type", r.Header.Get("Content-Type"))
			w.Header().Set("X-Auth", r.Header.Get("Authorization"))
			_, _ = w.Write(body)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGetPrintsBodyAndHeaders(t *testing.T) {
	srv := newTestServer(t)

	out, err := runCLI(t, "--base-url", srv.URL, "get", "/echo", "-i", "-H", "Authorization: Bearer x")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !strings.HasPrefix(out, "HTTP 200 OK\n") {
		t.Fatalf("missing status line: %q", out)
	}
	if !strings.Contains(out, "x-auth: Bearer x\n") {
		t.Fatalf("missing forwarded header: %q", out)
	}
}

func TestGetSelect(t *testing.T) {
	srv := newTestServer(t)

	out, err := runCLI(t, "--base-url", srv.URL, "get", "page", "--select", "li")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if out != "a\nb\n" {
		t.Fatalf("select output = %q", out)
	}
}

func TestGetFailOnNon2xx(t *testing.T) {
	srv := newTestServer(t)

	if _, err := runCLI(t, "--base-url", srv.URL, "get", "missing", "--fail"); err == nil {
		t.Fatalf("expected --fail to report 404")
	}
	if _, err := runCLI(t, "--base-url", srv.URL, "get", "missing"); err != nil {
		t.Fatalf("non-2xx without --fail should succeed: %v", err)
	}
}

func TestPostEncodings(t *testing.T) {
	srv := newTestServer(t)

	out, err := runCLI(t, "--base-url", srv.URL, "post", "echo", "-d", "a=1", "-d", "b=2")
	if err != nil {
		t.Fatalf("post form: %v", err)
	}
	if out != "a=1&b=2" {
		t.Fatalf("form body = %q", out)
	}

	out, err = runCLI(t, "--base-url", srv.URL, "post", "echo", "-d", "a=1", "--json")
	if err != nil {
		t.Fatalf("post json: %v", err)
	}
	if out != `{"a":"1"}` {
		t.Fatalf("json body = %q", out)
	}

	out, err = runCLI(t, "--base-url", srv.URL, "post", "echo", "--data-json", `{"n":[1,2]}`, "-i")
	if err != nil {
		t.Fatalf("post data-json: %v", err)
	}
	if !strings.Contains(out, "x-content-type: application/json\n") || !strings.HasSuffix(out, `{"n":[1,2]}`) {
		t.Fatalf("data-json output = %q", out)
	}
}

func TestHistoryWithProfiles(t *testing.T) {
	srv := newTestServer(t)
	dir := t.TempDir()
	profilesPath := filepath.Join(dir, "profiles.yaml")
	content := "profiles:\n  - id: local\n    base_url: " + srv.URL + "\n"
	if err := os.WriteFile(profilesPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write profiles: %v", err)
	}
	common := []string{
		"--profiles-file", profilesPath,
		"--history-type", "bbolt",
		"--history-path", filepath.Join(dir, "history.db"),
	}

	out, err := runCLI(t, append(common, "profiles")...)
	if err != nil {
		t.Fatalf("profiles: %v", err)
	}
	if out != "local\t"+srv.URL+"\n" {
		t.Fatalf("profiles output = %q", out)
	}

	if _, err := runCLI(t, append(common, "get", "page", "-p", "local")...); err != nil {
		t.Fatalf("get: %v", err)
	}

	out, err = runCLI(t, append(common, "history")...)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	var ex struct {
		Profile    string `json:"profile"`
		URL        string `json:"url"`
		StatusCode int    `json:"status_code"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &ex); err != nil {
		t.Fatalf("decode history %q: %v", out, err)
	}
	if ex.Profile != "local" || ex.URL != srv.URL+"/page" || ex.StatusCode != 200 {
		t.Fatalf("unexpected history entry %+v", ex)
	}
}

func TestInvalidFlags(t *testing.T) {
	if _, err := parseHeaderFlags([]string{"no-colon"}); err == nil {
		t.Fatalf("expected header parse error")
	}
	if _, err := parseDataFlags([]string{"=v"}); err == nil {
		t.Fatalf("expected data parse error")
	}
	if _, err := runCLI(t, "post", "x", "--json", "--multipart"); err == nil {
		t.Fatalf("expected mutually exclusive flag error")
	}
}
