package chi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog"
	"github.com/marcelsud/webhook-workflow/webhook"
)

// handleWebhook serves every method under a variant's mount point.
// The path handed to the flow is the part after the mount, always starting with /.
func handleWebhook(service webhook.UseCase, maxBody int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httplog.LogEntrySetField(r.Context(), "variant", service.Variant().Name())

		req, err := webhook.NewRequest(r, chi.URLParam(r, "*"), maxBody)
		if errors.Is(err, webhook.ErrBodyTooLarge) {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		if err != nil {
			http.Error(w, "failed to read request body", http.StatusBadRequest)
			return
		}

		resp := service.Handle(r.Context(), req)
		httplog.LogEntrySetField(r.Context(), "webhook_status", strconv.Itoa(resp.StatusCode))
		resp.Write(w)
	})
}
