package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/samvad-hq/restkit/internal/config"
	"github.com/samvad-hq/restkit/internal/domain"
	"github.com/samvad-hq/restkit/internal/logger"
	"github.com/samvad-hq/restkit/internal/profiles"
	"github.com/samvad-hq/restkit/internal/storage"
	"github.com/samvad-hq/restkit/pkg/httpclient"
	"github.com/samvad-hq/restkit/pkg/sinks"
)

const eventBodySnippetBytes = 1024

// Call describes one request issued through the Runner. When Profile is empty
// BaseURL (or the configured base_url) is used with the configured defaults.
type Call struct {
	Profile  string
	BaseURL  string
	Method   string
	Endpoint string
	Headers  map[string]string
	Data     any
}

// Runner resolves profiles into clients, performs calls and records each
// exchange in the history store and the configured sinks.
type Runner struct {
	cfg       *config.Config
	profiles  *profiles.Registry
	store     storage.Store
	fanout    *sinks.Fanout
	transport httpclient.Transport
	log       logger.Logger
}

// Option customizes a Runner.
type Option func(*Runner)

// WithTransport makes every client built by the runner use t.
func WithTransport(t httpclient.Transport) Option {
	return func(r *Runner) { r.transport = t }
}

// WithSinks replaces the sinks loaded from the sinks file.
func WithSinks(s []sinks.Sink) Option {
	return func(r *Runner) { r.fanout = sinks.NewFanout(s) }
}

// WithProfiles replaces the profiles loaded from the profiles file.
func WithProfiles(reg *profiles.Registry) Option {
	return func(r *Runner) { r.profiles = reg }
}

// NewRunner builds a runner from config files.
func NewRunner(ctx context.Context, cfg *config.Config, log logger.Logger, opts ...Option) (*Runner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	r := &Runner{cfg: cfg, log: log}
	for _, opt := range opts {
		opt(r)
	}

	if r.profiles == nil {
		reg, err := loadProfiles(cfg.ProfilesFile)
		if err != nil {
			return nil, fmt.Errorf("load profiles: %w", err)
		}
		r.profiles = reg
		log.DebugObj("profiles registry loaded", "profiles_meta", map[string]any{
			"count": len(reg.All()),
			"ids":   reg.IDs(),
		})
	}

	if r.fanout == nil {
		fanout, err := loadSinks(ctx, cfg.SinksFile, log)
		if err != nil {
			return nil, fmt.Errorf("load sinks: %w", err)
		}
		r.fanout = fanout
	}

	store, err := storage.NewStore(cfg.HistoryType, cfg.HistoryPath, storage.Options{
		TTL:             cfg.HistoryTTL,
		CleanupInterval: cfg.HistoryCleanupInterval,
	})
	if err != nil {
		_ = r.fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	r.store = store
	log.DebugObj("storage initialized", "storage_config", map[string]any{
		"type":        cfg.HistoryType,
		"path":        cfg.HistoryPath,
		"ttl_seconds": int(cfg.HistoryTTL.Seconds()),
	})

	return r, nil
}

// loadProfiles reads the profiles file; a missing file yields an empty registry.
func loadProfiles(path string) (*profiles.Registry, error) {
	if strings.TrimSpace(path) == "" {
		return profiles.NewRegistry()
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return profiles.NewRegistry()
	}
	return profiles.LoadRegistry(path)
}

func loadSinks(ctx context.Context, path string, log logger.Logger) (*sinks.Fanout, error) {
	if strings.TrimSpace(path) == "" {
		return sinks.NewFanout(nil), nil
	}
	reg, err := sinks.LoadRegistry(path)
	if err != nil {
		return nil, err
	}
	built, err := sinks.BuildAll(ctx, sinks.DefaultRegistry(), reg.Enabled(), log)
	if err != nil {
		return nil, err
	}
	return sinks.NewFanout(built), nil
}

// Profiles exposes the loaded profiles.
func (r *Runner) Profiles() *profiles.Registry { return r.profiles }

// Client builds the client a call would use.
func (r *Runner) Client(call Call) (*httpclient.Client, error) {
	opts := []httpclient.Option{httpclient.WithLogger(r.log)}
	if r.transport != nil {
		opts = append(opts, httpclient.WithTransport(r.transport))
	}

	if call.Profile != "" {
		p, ok := r.profiles.ByID(call.Profile)
		if !ok {
			return nil, fmt.Errorf("unknown profile %q", call.Profile)
		}
		return p.NewClient(opts...)
	}

	base := call.BaseURL
	if base == "" {
		base = r.cfg.BaseURL
	}
	opts = append(opts,
		httpclient.WithTimeout(r.cfg.Timeout),
		httpclient.WithVerifyTLS(r.cfg.VerifyTLS),
	)
	return httpclient.New(base, opts...)
}

// Do performs the call and records the exchange. Recording failures are
// logged and never change the returned response or error.
func (r *Runner) Do(ctx context.Context, call Call) (*httpclient.Response, error) {
	if r == nil || r.store == nil {
		return nil, fmt.Errorf("runner is not initialized")
	}
	client, err := r.Client(call)
	if err != nil {
		return nil, err
	}

	method := strings.ToUpper(strings.TrimSpace(call.Method))
	if method == "" {
		method = http.MethodGet
	}

	ex := domain.NewExchange(call.Profile, method, client.BuildURL(call.Endpoint))
	start := time.Now()

	var resp *httpclient.Response
	switch method {
	case http.MethodGet:
		resp, err = client.Get(ctx, call.Endpoint, call.Headers)
	case http.MethodPost:
		resp, err = client.Post(ctx, call.Endpoint, call.Data, call.Headers)
	default:
		return nil, fmt.Errorf("unsupported method %q", method)
	}

	if resp == nil && !httpclient.IsTransport(err) {
		return nil, err
	}

	ex.DurationMs = time.Since(start).Milliseconds()
	if resp != nil {
		ex.StatusCode = resp.StatusCode()
		ex.Headers = resp.Headers()
		ex.BodySnippet = domain.Snippet(resp.Content(), eventBodySnippetBytes)
	}
	if err != nil {
		ex.Error = err.Error()
	}
	r.record(ctx, ex)

	return resp, err
}

func (r *Runner) record(ctx context.Context, ex domain.Exchange) {
	if err := r.store.Record(ex); err != nil {
		r.log.WarnObj("history record failed", "history_error", map[string]any{
			"exchange_id": ex.ID,
			"error":       err.Error(),
		})
	}

	if r.fanout.Size() == 0 {
		return
	}
	delivered, err := r.fanout.Send(ctx, sinks.NewEvent(ex))
	if err != nil {
		r.log.WarnObj("sink delivery failed", "sink_error", map[string]any{
			"exchange_id": ex.ID,
			"delivered":   delivered,
			"error":       err.Error(),
		})
		return
	}
	r.log.DebugObj("exchange forwarded", "sink_meta", map[string]any{
		"exchange_id": ex.ID,
		"delivered":   delivered,
	})
}

// History returns up to limit recorded exchanges, newest first.
func (r *Runner) History(limit int) ([]domain.Exchange, error) {
	if r == nil || r.store == nil {
		return nil, fmt.Errorf("runner is not initialized")
	}
	return r.store.Recent(limit)
}

// Close releases the history store and sinks.
func (r *Runner) Close() error {
	if r == nil {
		return nil
	}
	var errs []error
	if r.store != nil {
		if err := r.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close storage: %w", err))
		}
	}
	if err := r.fanout.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
