package webhook

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/marcelsud/webhook-workflow/hook"
	"github.com/marcelsud/webhook-workflow/workflow"
)

const textContentType = "text/plain"

// Response is what the flow sends back to the caller
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// NotFound is sent when no hook matches or the workflow cannot be activated
func NotFound() Response {
	return Response{
		StatusCode:  http.StatusNotFound,
		ContentType: textContentType,
		Body:        []byte("Path not found."),
	}
}

// InternalError is sent when the flow fails unexpectedly
func InternalError() Response {
	return Response{
		StatusCode:  http.StatusInternalServerError,
		ContentType: textContentType,
		Body:        []byte("Internal server error."),
	}
}

// Write sends the response; a nil body writes headers only
func (r Response) Write(w http.ResponseWriter) {
	if r.ContentType != "" {
		w.Header().Set("Content-Type", r.ContentType)
	}
	status := r.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if len(r.Body) > 0 {
		w.Write(r.Body)
	}
}

// RenderGeneric writes the workflow response verbatim.
// ContentType overrides text/plain even when there is no body.
func RenderGeneric(o workflow.Outcome) Response {
	resp := Response{
		StatusCode:  http.StatusOK,
		ContentType: textContentType,
	}
	if text := o.Response(); text != "" {
		resp.Body = []byte(text)
	}
	if ct := o.ContentType(); strings.TrimSpace(ct) != "" {
		resp.ContentType = ct
	}
	return resp
}

// RenderSlack always answers application/json. An empty workflow response
// sends no body; anything that is not a JSON object becomes {"text": ...}.
func RenderSlack(o workflow.Outcome, h hook.Hook) Response {
	resp := Response{
		StatusCode:  http.StatusOK,
		ContentType: jsonContentType,
	}

	text := o.Response()
	if text == "" {
		return resp
	}

	obj, ok := ParseSlackObject(text)
	if !ok {
		obj = map[string]any{"text": text}
	}
	AddSlackUsernameAndIcon(obj, h)

	body, err := json.Marshal(obj)
	if err != nil {
		body, _ = json.Marshal(map[string]any{"text": text})
	}
	resp.Body = body
	return resp
}

// ParseSlackObject decodes a JSON object, reporting false for anything else
func ParseSlackObject(s string) (map[string]any, bool) {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil || obj == nil {
		return nil, false
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, false
	}
	return obj, true
}

// AddSlackUsernameAndIcon fills in hook branding without overwriting workflow values
func AddSlackUsernameAndIcon(obj map[string]any, h hook.Hook) {
	if _, ok := obj["username"]; !ok && strings.TrimSpace(h.ResponseUsername) != "" {
		obj["username"] = h.ResponseUsername
	}
	_, hasURL := obj["icon_url"]
	_, hasEmoji := obj["icon_emoji"]
	if !hasURL && !hasEmoji && strings.TrimSpace(h.ResponseIcon) != "" {
		obj["icon_url"] = h.ResponseIcon
	}
}
