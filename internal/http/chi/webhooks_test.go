package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/marcelsud/webhook-workflow/hook"
	"github.com/marcelsud/webhook-workflow/webhook"
	"github.com/marcelsud/webhook-workflow/webhook/signature"
	"github.com/marcelsud/webhook-workflow/workflow"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
 * These tests run the real flow end to end: hooks from YAML, the echo
 * workflow engine and both variants mounted on the router.
 */

const testHooks = `
hooks:
  - id: "deploy"
    method: "POST"
    url: "^/deploy/.*$"
    workflow_type: "wf-deploy"
  - id: "ping"
    order: 1
    url: "/ping"
    workflow_type: "wf-ping"
  - id: "slack-deploy"
    type: "slack"
    text: "deploy"
    workflow_type: "wf-slack"
    response_username: "DeployBot"
`

const testSecret = "8f742231b10e8888abcd99yyyzzz85a5"

func newTestRouter(t *testing.T) (http.Handler, *hook.Loader) {
	t.Helper()

	loader := hook.NewLoader()
	require.NoError(t, loader.Parse([]byte(testHooks)))

	engine := workflow.NewEcho()
	logger := zerolog.Nop()
	generic := webhook.NewService(loader, engine, webhook.NewGeneric("generic"), webhook.WithLogger(logger))
	slack := webhook.NewService(loader, engine, webhook.NewSlack("slack"), webhook.WithLogger(logger))

	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("# metrics"))
	})

	r := WebhookHandlers(context.Background(), Settings{
		LogLevel: "error",
		Mounts: []Mount{
			{Prefix: "webhook", Service: generic},
			{Prefix: "slack", Service: slack, Middleware: []func(http.Handler) http.Handler{
				signature.NewVerifier(testSecret).Middleware,
			}},
		},
		Hooks:        loader,
		HookTypes:    []string{"generic", "slack"},
		Metrics:      metrics,
		MaxBodyBytes: 1 << 20,
	})
	return r, loader
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestWebhookHandlers_Generic(t *testing.T) {
	h, _ := newTestRouter(t)

	t.Run("success - matched hook echoes the normalized request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/webhook/deploy/prod?force=1", strings.NewReader(`{"ref":"main"}`))
		req.Header.Set("Content-Type", "application/json")

		w := serve(h, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var payload map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
		assert.Equal(t, "deploy", payload["hookId"])
		assert.Equal(t, "POST", payload["method"])
		assert.Equal(t, map[string]any{"force": "1"}, payload["queryString"])
		assert.Equal(t, map[string]any{"ref": "main"}, payload["body"])
	})

	t.Run("success - path matching ignores case", func(t *testing.T) {
		w := serve(h, httptest.NewRequest(http.MethodGet, "/webhook/PING", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"hookId":"ping"`)
	})

	t.Run("unmatched - no hook for path", func(t *testing.T) {
		w := serve(h, httptest.NewRequest(http.MethodGet, "/webhook/status", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Path not found.", w.Body.String())
	})

	t.Run("unmatched - method filter", func(t *testing.T) {
		w := serve(h, httptest.NewRequest(http.MethodGet, "/webhook/deploy/prod", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unmatched - mount root", func(t *testing.T) {
		w := serve(h, httptest.NewRequest(http.MethodPost, "/webhook", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("error - body over the limit", func(t *testing.T) {
		body := `{"ref":"` + strings.Repeat("x", 1<<20) + `"}`
		req := httptest.NewRequest(http.MethodPost, "/webhook/deploy/prod", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		w := serve(h, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

func TestWebhookHandlers_Slack(t *testing.T) {
	h, _ := newTestRouter(t)

	form := url.Values{
		"team_domain":  {"acme"},
		"channel_name": {"ops"},
		"user_name":    {"jane"},
		"text":         {"please DEPLOY now"},
	}.Encode()

	signed := func(body string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/slack/command", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		now := time.Now()
		req.Header.Set(signature.TimestampHeader, strconv.FormatInt(now.Unix(), 10))
		req.Header.Set(signature.SignatureHeader, signature.Sign(testSecret, now, []byte(body)))
		return req
	}

	t.Run("success - signed command reaches the workflow", func(t *testing.T) {
		w := serve(h, signed(form))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var reply map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
		assert.Equal(t, "slack-deploy", reply["hookId"])
		assert.Equal(t, "DeployBot", reply["username"])
	})

	t.Run("unmatched - text filter", func(t *testing.T) {
		body := url.Values{"text": {"status please"}}.Encode()

		w := serve(h, signed(body))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("error - unsigned request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/slack/command", strings.NewReader(form))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		w := serve(h, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("error - body over the limit is rejected before signature checks", func(t *testing.T) {
		body := url.Values{"text": {"deploy " + strings.Repeat("x", 1<<20)}}.Encode()

		w := serve(h, signed(body))

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

func TestWebhookHandlers_Admin(t *testing.T) {
	h, _ := newTestRouter(t)

	t.Run("success - health", func(t *testing.T) {
		w := serve(h, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
	})

	t.Run("success - metrics", func(t *testing.T) {
		w := serve(h, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "# metrics", w.Body.String())
	})

	t.Run("success - list every hook", func(t *testing.T) {
		w := serve(h, httptest.NewRequest(http.MethodGet, "/v1/hooks", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var results []hookResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
		require.Len(t, results, 3)
		assert.Equal(t, "deploy", results[0].ID)
		assert.Equal(t, "ping", results[1].ID)
		assert.Equal(t, "slack-deploy", results[2].ID)
	})

	t.Run("success - list by type", func(t *testing.T) {
		w := serve(h, httptest.NewRequest(http.MethodGet, "/v1/hooks?type=slack", nil))

		var results []hookResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
		require.Len(t, results, 1)
		assert.Equal(t, "wf-slack", results[0].WorkflowTypeID)
	})

	t.Run("success - get hook", func(t *testing.T) {
		w := serve(h, httptest.NewRequest(http.MethodGet, "/v1/hooks/ping", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var result hookResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, "/ping", result.URL)
	})

	t.Run("error - unknown hook", func(t *testing.T) {
		w := serve(h, httptest.NewRequest(http.MethodGet, "/v1/hooks/missing", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
