package webhook

import (
	"bytes"
	"encoding/json"
	"io"
	"net/url"
	"strings"

	"github.com/marcelsud/webhook-workflow/hook"
)

const (
	jsonContentType = "application/json"
	formContentType = "application/x-www-form-urlencoded"
)

// excludedHeaders are never copied into the payload
var excludedHeaders = []string{"Authorization", "Cookie"}

/* NormalizedRequest is the canonical payload handed to workflows
 * Field order is fixed by the struct; optional parts are omitted when absent
 */
type NormalizedRequest struct {
	HookID        string            `json:"hookId"`
	URL           string            `json:"url"`
	RawURL        string            `json:"rawUrl"`
	Method        string            `json:"method"`
	QueryString   map[string]string `json:"queryString"`
	RemoteAddress string            `json:"remoteAddress"`
	RemoteName    string            `json:"remoteName"`
	ServerName    string            `json:"serverName"`
	RawBody       string            `json:"rawBody"`
	Body          any               `json:"body,omitzero"`
	Headers       map[string]string `json:"headers,omitzero"`
	Cookies       map[string]string `json:"cookies,omitzero"`
}

// JSON serializes the payload for the Request workflow attribute
func (n NormalizedRequest) JSON() (string, error) {
	b, err := json.Marshal(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Normalize converts a request into the workflow payload using the hook's enrichment options
func Normalize(req *Request, h hook.Hook) NormalizedRequest {
	n := NormalizedRequest{
		HookID:        h.ID,
		URL:           req.Path,
		RawURL:        req.RawURL,
		Method:        req.Method,
		QueryString:   flatten(req.Query),
		RemoteAddress: req.RemoteAddr,
		RemoteName:    req.RemoteName,
		ServerName:    req.ServerName,
		RawBody:       strings.ToValidUTF8(string(req.Body), "�"),
	}

	switch req.ContentType {
	case jsonContentType:
		if body, ok := ParseJSONBody(req.Body); ok {
			n.Body = body
		}
	case formContentType:
		if body, ok := ParseFormBody(req.Body); ok {
			n.Body = body
		}
	}

	if h.Options.IncludeHeaders {
		n.Headers = make(map[string]string, len(req.Header))
		for name, values := range req.Header {
			if isExcludedHeader(name) {
				continue
			}
			n.Headers[name] = strings.Join(values, ",")
		}
	}

	if h.Options.IncludeCookies {
		n.Cookies = make(map[string]string, len(req.Cookies))
		for _, c := range req.Cookies {
			if _, seen := n.Cookies[c.Name]; !seen {
				n.Cookies[c.Name] = c.Value
			}
		}
	}

	return n
}

// ParseJSONBody decodes a JSON document, reporting false when it is not valid JSON
func ParseJSONBody(raw []byte) (any, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, false
	}
	return v, true
}

// ParseFormBody decodes a url-encoded form, reporting false on malformed input
func ParseFormBody(raw []byte) (map[string]string, bool) {
	values, err := url.ParseQuery(string(raw))
	if err != nil {
		return nil, false
	}
	return flatten(values), true
}

func flatten(values url.Values) map[string]string {
	m := make(map[string]string, len(values))
	for k, v := range values {
		m[k] = strings.Join(v, ",")
	}
	return m
}

func isExcludedHeader(name string) bool {
	for _, h := range excludedHeaders {
		if strings.EqualFold(h, name) {
			return true
		}
	}
	return false
}
