package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"

	"github.com/samvad-hq/restkit/internal/app"
	"github.com/samvad-hq/restkit/internal/config"
	"github.com/samvad-hq/restkit/internal/logger"
	"github.com/samvad-hq/restkit/pkg/httpclient"
)

type requestFlags struct {
	profile   string
	headers   []string
	data      []string
	dataJSON  string
	asJSON    bool
	multipart bool
	selector  string
	include   bool
	fail      bool
}

func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "restkit",
		Short:         "Issue HTTP requests against configured API profiles",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.String("log-level", "warn", "log level (debug, info, warn, error)")
	pf.String("profiles-file", "./configs/profiles.yaml", "profiles file (YAML or JSON)")
	pf.String("sinks-file", "", "sinks file (YAML or JSON); empty disables forwarding")
	pf.String("base-url", "", "base URL used when no profile is selected")
	pf.Int64("timeout-seconds", 30, "request timeout in seconds when no profile is selected")
	pf.Bool("verify-tls", true, "verify TLS certificates when no profile is selected")
	pf.String("history-type", "none", "history backend (bbolt or none)")
	pf.String("history-path", "./data/history.db", "history database path")

	root.AddCommand(
		newGetCmd(out),
		newPostCmd(out),
		newHistoryCmd(out),
		newProfilesCmd(out),
	)
	return root
}

// withRunner loads config from the command's flags and hands a ready runner to fn.
func withRunner(cmd *cobra.Command, fn func(*app.Runner) error) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	sugar, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()
	logger.DebugObj("restkit starting", "config", map[string]any{
		"command":       cmd.Name(),
		"profiles_file": cfg.ProfilesFile,
		"sinks_file":    cfg.SinksFile,
		"history_type":  cfg.HistoryType,
		"timeout":       cfg.Timeout.String(),
		"verify_tls":    cfg.VerifyTLS,
	})

	runner, err := app.NewRunner(cmd.Context(), cfg, logger.NewZap(sugar))
	if err != nil {
		logger.ErrorObj("failed to initialize runner", "error", err.Error())
		return err
	}
	defer func() {
		if err := runner.Close(); err != nil {
			logger.ErrorObj("runner close failed", "error", err.Error())
		}
	}()

	return fn(runner)
}

func addRequestFlags(cmd *cobra.Command, f *requestFlags) {
	cmd.Flags().StringVarP(&f.profile, "profile", "p", "", "profile id from the profiles file")
	cmd.Flags().StringArrayVarP(&f.headers, "header", "H", nil, `request header "Key: Value" (repeatable)`)
	cmd.Flags().StringVar(&f.selector, "select", "", "print the text of elements matching a CSS selector")
	cmd.Flags().BoolVarP(&f.include, "include", "i", false, "print status line and response headers")
	cmd.Flags().BoolVar(&f.fail, "fail", false, "exit non-zero on a non-2xx status")
}

func newGetCmd(out io.Writer) *cobra.Command {
	f := &requestFlags{}
	cmd := &cobra.Command{
		Use:   "get <endpoint>",
		Short: "Send a GET request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, out, f, http.MethodGet, args[0])
		},
	}
	addRequestFlags(cmd, f)
	return cmd
}

func newPostCmd(out io.Writer) *cobra.Command {
	f := &requestFlags{}
	cmd := &cobra.Command{
		Use:   "post <endpoint>",
		Short: "Send a POST request",
		Args:  cobra.RangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoint := ""
			if len(args) == 1 {
				endpoint = args[0]
			}
			return execute(cmd, out, f, http.MethodPost, endpoint)
		},
	}
	addRequestFlags(cmd, f)
	cmd.Flags().StringArrayVarP(&f.data, "data", "d", nil, "form field key=value (repeatable)")
	cmd.Flags().StringVar(&f.dataJSON, "data-json", "", "raw JSON document to send as the body")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "send fields as application/json")
	cmd.Flags().BoolVar(&f.multipart, "multipart", false, "send fields as multipart/form-data")
	cmd.MarkFlagsMutuallyExclusive("json", "multipart")
	cmd.MarkFlagsMutuallyExclusive("data", "data-json")
	return cmd
}

func execute(cmd *cobra.Command, out io.Writer, f *requestFlags, method, endpoint string) error {
	headers, err := parseHeaderFlags(f.headers)
	if err != nil {
		return err
	}
	data, err := requestData(f, headers)
	if err != nil {
		return err
	}

	return withRunner(cmd, func(r *app.Runner) error {
		resp, err := r.Do(cmd.Context(), app.Call{
			Profile:  f.profile,
			Method:   method,
			Endpoint: endpoint,
			Headers:  headers,
			Data:     data,
		})
		if err != nil {
			return err
		}
		logger.InfoObj("request completed", "request", map[string]any{
			"profile":     f.profile,
			"method":      method,
			"endpoint":    endpoint,
			"status_code": resp.StatusCode(),
		})
		if err := printResponse(out, resp, f); err != nil {
			return err
		}
		if f.fail && !resp.IsSuccessful() {
			logger.WarnObj("unsuccessful status", "request", map[string]any{
				"method":      method,
				"endpoint":    endpoint,
				"status_code": resp.StatusCode(),
			})
			return fmt.Errorf("request failed with status %d", resp.StatusCode())
		}
		return nil
	})
}

// requestData builds the POST payload and sets Content-Type for --json/--multipart/--data-json.
func requestData(f *requestFlags, headers map[string]string) (any, error) {
	if f.dataJSON != "" {
		var doc any
		if err := json.Unmarshal([]byte(f.dataJSON), &doc); err != nil {
			return nil, fmt.Errorf("invalid --data-json: %w", err)
		}
		headers["Content-Type"] = "application/json"
		return doc, nil
	}

	fields, err := parseDataFlags(f.data)
	if err != nil {
		return nil, err
	}
	switch {
	case f.asJSON:
		headers["Content-Type"] = "application/json"
	case f.multipart:
		headers["Content-Type"] = "multipart/form-data"
	}
	return fields, nil
}

func parseHeaderFlags(raw []string) (map[string]string, error) {
	headers := make(map[string]string, len(raw))
	for _, h := range raw {
		key, value, ok := strings.Cut(h, ":")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid header %q (expected \"Key: Value\")", h)
		}
		headers[key] = strings.TrimSpace(value)
	}
	return headers, nil
}

func parseDataFlags(raw []string) (map[string]string, error) {
	fields := make(map[string]string, len(raw))
	for _, d := range raw {
		key, value, ok := strings.Cut(d, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid data field %q (expected key=value)", d)
		}
		fields[key] = value
	}
	return fields, nil
}

func printResponse(out io.Writer, resp *httpclient.Response, f *requestFlags) error {
	if f.include {
		fmt.Fprintf(out, "HTTP %d %s\n", resp.StatusCode(), http.StatusText(resp.StatusCode()))
		headers := resp.Headers()
		keys := make([]string, 0, len(headers))
		for k := range headers {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(out, "%s: %s\n", k, headers[k])
		}
		fmt.Fprintln(out)
	}

	if f.selector == "" {
		_, err := out.Write(resp.Content())
		return err
	}

	doc, err := resp.HTML()
	if err != nil {
		return err
	}
	doc.Find(f.selector).Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			fmt.Fprintln(out, text)
		}
	})
	return nil
}

func newHistoryCmd(out io.Writer) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded exchanges, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRunner(cmd, func(r *app.Runner) error {
				exchanges, err := r.History(limit)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(out)
				for _, ex := range exchanges {
					if err := enc.Encode(ex); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of exchanges to list (0 for all)")
	return cmd
}

func newProfilesCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List configured profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRunner(cmd, func(r *app.Runner) error {
				for _, p := range r.Profiles().All() {
					fmt.Fprintf(out, "%s\t%s\n", p.ID, p.BaseURL)
				}
				return nil
			})
		},
	}
}
