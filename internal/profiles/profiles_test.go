package profiles

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/samvad-hq/restkit/pkg/httpclient"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadRegistryYAML(t *testing.T) {
	path := writeFile(t, "profiles.yaml", `
profiles:
  - id: github
    base_url: https://api.github.com/
    headers:
      Accept: application/vnd.github+json
    timeout_seconds: 10
  - id: local
    name: Local dev
    base_url: https://localhost:8443
    verify_tls: false
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if ids := reg.IDs(); len(ids) != 2 || ids[0] != "github" || ids[1] != "local" {
		t.Fatalf("IDs = %v", ids)
	}

	gh, ok := reg.ByID("github")
	if !ok {
		t.Fatalf("expected github profile")
	}
	if gh.Name != "github" {
		t.Fatalf("name should default to id, got %q", gh.Name)
	}

	client, err := gh.NewClient()
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if client.BaseURL() != "https://api.github.com" {
		t.Fatalf("BaseURL = %q", client.BaseURL())
	}
	if client.Timeout() != 10*time.Second {
		t.Fatalf("Timeout = %s", client.Timeout())
	}
	if client.Headers()["Accept"] != "application/vnd.github+json" {
		t.Fatalf("headers = %v", client.Headers())
	}

	local, _ := reg.ByID("local")
	lc, err := local.NewClient()
	if err != nil {
		t.Fatalf("NewClient local: %v", err)
	}
	if lc.VerifyTLS() {
		t.Fatalf("expected verify_tls false for local")
	}
	if lc.Timeout() != httpclient.DefaultTimeout {
		t.Fatalf("Timeout = %s", lc.Timeout())
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	path := writeFile(t, "profiles.json", `{"profiles":[{"id":"api","base_url":"http://api.test"}]}`)
	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if _, ok := reg.ByID("api"); !ok {
		t.Fatalf("expected api profile")
	}
}

func TestLoadRegistryDuplicateID(t *testing.T) {
	path := writeFile(t, "profiles.yaml", `
profiles:
  - id: dup
    base_url: http://a.test
  - id: dup
    base_url: http://b.test
`)
	if _, err := LoadRegistry(path); err == nil {
		t.Fatalf("expected duplicate profile error")
	}
}

func TestValidateProfileRejectsBadBaseURL(t *testing.T) {
	if _, err := NewRegistry(Profile{ID: "x", BaseURL: "ftp://files.test"}); err == nil {
		t.Fatalf("expected scheme error")
	}
	if _, err := NewRegistry(Profile{ID: "x"}); err == nil {
		t.Fatalf("expected missing base_url error")
	}
}

func TestNewClientRejectsNonStringHeaders(t *testing.T) {
	path := writeFile(t, "profiles.yaml", `
profiles:
  - id: api
    base_url: http://api.test
    headers:
      X-Retry: 3
`)
	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	p, _ := reg.ByID("api")
	if _, err := p.NewClient(); !errors.Is(err, httpclient.ErrInvalidHeader) {
		t.Fatalf("err = %v, want ErrInvalidHeader", err)
	}
}
