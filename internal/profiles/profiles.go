// Package profiles loads named API targets from YAML/JSON files.
package profiles

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/samvad-hq/restkit/internal/fileconf"
	"github.com/samvad-hq/restkit/pkg/httpclient"
)

// Profile describes one API target. Headers stay untyped until a client is
// built so that non-string values in the file are reported as invalid headers.
type Profile struct {
	ID             string         `json:"id" yaml:"id"`
	Name           string         `json:"name" yaml:"name"`
	BaseURL        string         `json:"base_url" yaml:"base_url"`
	Headers        map[string]any `json:"headers" yaml:"headers"`
	TimeoutSeconds int            `json:"timeout_seconds" yaml:"timeout_seconds"`
	VerifyTLS      *bool          `json:"verify_tls" yaml:"verify_tls"`
}

type fileRegistry struct {
	Profiles []Profile `json:"profiles" yaml:"profiles"`
}

// Registry holds the loaded profiles.
type Registry struct {
	mu       sync.RWMutex
	profiles []Profile
	idx      map[string]Profile
}

// LoadRegistry loads the profiles registry from a YAML/JSON file.
func LoadRegistry(path string) (*Registry, error) {
	var fileReg fileRegistry
	if err := fileconf.Load(path, "profiles", &fileReg); err != nil {
		return nil, err
	}
	return NewRegistry(fileReg.Profiles...)
}

// NewRegistry validates profiles and indexes them by id.
func NewRegistry(profiles ...Profile) (*Registry, error) {
	reg := &Registry{
		profiles: make([]Profile, 0, len(profiles)),
		idx:      make(map[string]Profile, len(profiles)),
	}
	for i := range profiles {
		p := sanitizeProfile(profiles[i])
		if err := validateProfile(p); err != nil {
			return nil, fmt.Errorf("profiles[%d]: %w", i, err)
		}
		if _, exists := reg.idx[p.ID]; exists {
			return nil, fmt.Errorf("duplicate profile id %q", p.ID)
		}
		reg.profiles = append(reg.profiles, p)
		reg.idx[p.ID] = p
	}
	return reg, nil
}

func sanitizeProfile(p Profile) Profile {
	p.ID = strings.TrimSpace(p.ID)
	p.Name = strings.TrimSpace(p.Name)
	p.BaseURL = strings.TrimSpace(p.BaseURL)
	if p.Name == "" {
		p.Name = p.ID
	}
	if p.TimeoutSeconds < 0 {
		p.TimeoutSeconds = 0
	}
	return p
}

func validateProfile(p Profile) error {
	if p.ID == "" {
		return errors.New("id is required")
	}
	if p.BaseURL == "" {
		return fmt.Errorf("base_url is required for profile %q", p.ID)
	}
	u, err := url.Parse(p.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url for profile %q: %w", p.ID, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url for profile %q must be http or https", p.ID)
	}
	return nil
}

// ByID returns the profile with the given id.
func (r *Registry) ByID(id string) (Profile, bool) {
	if r == nil {
		return Profile{}, false
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Profile{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.idx[id]
	return p, ok
}

// All returns the loaded profiles in file order.
func (r *Registry) All() []Profile {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Profile, len(r.profiles))
	copy(out, r.profiles)
	return out
}

// IDs returns the sorted profile ids.
func (r *Registry) IDs() []string {
	all := r.All()
	ids := make([]string, 0, len(all))
	for _, p := range all {
		ids = append(ids, p.ID)
	}
	sort.Strings(ids)
	return ids
}

// VerifyTLSValue returns the verify flag defaulting to true.
func (p Profile) VerifyTLSValue() bool {
	if p.VerifyTLS == nil {
		return true
	}
	return *p.VerifyTLS
}

// NewClient builds a client for the profile. Extra options are applied after
// the profile's own settings.
func (p Profile) NewClient(opts ...httpclient.Option) (*httpclient.Client, error) {
	base := []httpclient.Option{httpclient.WithVerifyTLS(p.VerifyTLSValue())}
	if p.TimeoutSeconds > 0 {
		base = append(base, httpclient.WithTimeoutSeconds(p.TimeoutSeconds))
	}

	client, err := httpclient.New(p.BaseURL, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("profile %q: %w", p.ID, err)
	}
	if err := client.SetHeadersAny(p.Headers); err != nil {
		return nil, fmt.Errorf("profile %q: %w", p.ID, err)
	}
	return client, nil
}
