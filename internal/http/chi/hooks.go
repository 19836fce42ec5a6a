package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/marcelsud/webhook-workflow/hook"
)

/*
 * hookResponse is the hook definition as seen by the admin API
 */
type hookResponse struct {
	ID               string            `json:"id"`
	TypeID           string            `json:"type_id"`
	Name             string            `json:"name,omitempty"`
	Order            int               `json:"order"`
	Method           string            `json:"method,omitempty"`
	URL              string            `json:"url,omitempty"`
	Text             string            `json:"text,omitempty"`
	WorkflowTypeID   string            `json:"workflow_type"`
	IncludeHeaders   bool              `json:"include_headers"`
	IncludeCookies   bool              `json:"include_cookies"`
	ResponseUsername string            `json:"response_username,omitempty"`
	ResponseIcon     string            `json:"response_icon,omitempty"`
	Attributes       map[string]string `json:"attributes,omitempty"`
}

func newHookResponse(h hook.Hook) hookResponse {
	return hookResponse{
		ID:               h.ID,
		TypeID:           h.TypeID,
		Name:             h.Name,
		Order:            h.Order,
		Method:           h.Method,
		URL:              h.URL,
		Text:             h.Text,
		WorkflowTypeID:   h.WorkflowTypeID,
		IncludeHeaders:   h.Options.IncludeHeaders,
		IncludeCookies:   h.Options.IncludeCookies,
		ResponseUsername: h.ResponseUsername,
		ResponseIcon:     h.ResponseIcon,
		Attributes:       h.Attributes,
	}
}

// getHooks handles GET /v1/hooks, optionally filtered with ?type=
func getHooks(hooks hook.Reader, typeIDs []string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		types := typeIDs
		if t := r.URL.Query().Get("type"); t != "" {
			types = []string{t}
		}

		result := make([]hookResponse, 0)
		for _, typeID := range types {
			all, err := hooks.List(r.Context(), typeID)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			for _, h := range all {
				result = append(result, newHookResponse(h))
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

// getHook handles GET /v1/hooks/{id}
func getHook(hooks hook.Reader) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, err := hooks.Get(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, hook.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(newHookResponse(h)); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
