package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/marcelsud/webhook-workflow/hook"
	"github.com/marcelsud/webhook-workflow/internal/bootstrap"
	"github.com/marcelsud/webhook-workflow/webhook"
	"github.com/spf13/cobra"
)

type matchOptions struct {
	hooksFile   string
	kind        string
	typeID      string
	method      string
	path        string
	text        string
	body        string
	contentType string
}

func cmdMatch() *cobra.Command {
	var opts matchOptions

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Dry-run a request against the hooks and print the workflow payload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			hooks, closeHooks, err := openReader(ctx, opts.hooksFile)
			if err != nil {
				return err
			}
			defer closeHooks(ctx)

			variant, err := newVariant(opts)
			if err != nil {
				return err
			}

			req, err := dryRunRequest(opts)
			if err != nil {
				return err
			}

			candidates, err := hooks.List(ctx, variant.DefinedTypeID())
			if err != nil {
				return err
			}
			h, ok := webhook.FindHook(variant, candidates, req)
			if !ok {
				return fmt.Errorf("%w: %s %s", webhook.ErrNoHookMatched, req.Method, req.Path)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Matched hook %s (workflow %s)\n", h.ID, h.WorkflowTypeID)

			payload, err := json.MarshalIndent(webhook.Normalize(req, h), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(payload))
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.hooksFile, "file", "f", "", "hooks file to match against instead of the configured source")
	cmd.Flags().StringVarP(&opts.kind, "kind", "k", "generic", "variant: generic or slack")
	cmd.Flags().StringVarP(&opts.typeID, "type", "t", "", "hook type id (defaults to the variant's configured type)")
	cmd.Flags().StringVarP(&opts.method, "method", "X", http.MethodPost, "request method")
	cmd.Flags().StringVarP(&opts.path, "path", "p", "/", "path below the mount point")
	cmd.Flags().StringVar(&opts.text, "text", "", "slack text field")
	cmd.Flags().StringVarP(&opts.body, "data", "d", "", "request body")
	cmd.Flags().StringVarP(&opts.contentType, "content-type", "H", "", "request content type")
	return cmd
}

func openReader(ctx context.Context, hooksFile string) (hook.Reader, bootstrap.CloseFunc, error) {
	if hooksFile == "" {
		return bootstrap.OpenHooks(ctx, cfg)
	}
	loader := hook.NewLoader()
	if err := loader.Load(hooksFile); err != nil {
		return nil, nil, err
	}
	return loader, func(context.Context) error { return nil }, nil
}

func newVariant(opts matchOptions) (webhook.Variant, error) {
	kind := webhook.NewKind(opts.kind)
	if err := kind.Validate(); err != nil {
		return nil, fmt.Errorf("unknown kind %q", opts.kind)
	}

	typeID := opts.typeID
	if typeID == "" {
		typeID = cfg.GenericTypeID
		if kind == webhook.SlackKind {
			typeID = cfg.SlackTypeID
		}
	}
	return kind.NewVariant(typeID)
}

// dryRunRequest builds the request a client would send; --text becomes a Slack form post
func dryRunRequest(opts matchOptions) (*webhook.Request, error) {
	body, contentType := opts.body, opts.contentType
	if opts.text != "" && body == "" {
		body = url.Values{"text": {opts.text}}.Encode()
		contentType = "application/x-www-form-urlencoded"
	}

	r, err := http.NewRequest(strings.ToUpper(opts.method), "http://localhost"+ensureSlash(opts.path), strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}
	r.RemoteAddr = "127.0.0.1:0"

	return webhook.NewRequest(r, r.URL.Path, 0)
}

func ensureSlash(p string) string {
	if strings.HasPrefix(p, "/") {
		return p
	}
	return "/" + p
}
