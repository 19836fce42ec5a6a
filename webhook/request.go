package webhook

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
)

/* Request is an inbound HTTP request with its body buffered once
 * Uses value semantics for the data; the flow never mutates it
 */
type Request struct {
	Method      string
	Path        string // part of the URL after the handler's mount point, always starts with /
	RawURL      string // absolute URL as received
	Query       url.Values
	Header      http.Header
	Cookies     []*http.Cookie
	ContentType string
	RemoteAddr  string
	RemoteName  string
	ServerName  string
	Body        []byte
	form        url.Values
}

// ErrBodyTooLarge is returned when the body exceeds the configured limit
var ErrBodyTooLarge = errors.New("request body too large")

// NewRequest buffers the body of r and captures everything the flow needs.
// path is the part of the URL after the mount point. Bodies over maxBody
// are rejected with ErrBodyTooLarge, never cut short.
func NewRequest(r *http.Request, path string, maxBody int64) (*Request, error) {
	var body []byte
	if r.Body != nil {
		reader := r.Body
		if maxBody > 0 {
			reader = http.MaxBytesReader(nil, r.Body, maxBody)
		}
		b, err := io.ReadAll(reader)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return nil, fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, tooLarge.Limit)
			}
			return nil, fmt.Errorf("reading request body: %w", err)
		}
		body = b
		r.Body = io.NopCloser(bytes.NewReader(body))
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	remoteAddr := hostOnly(r.RemoteAddr)
	req := &Request{
		Method:      r.Method,
		Path:        path,
		RawURL:      absoluteURL(r),
		Query:       r.URL.Query(),
		Header:      r.Header.Clone(),
		Cookies:     r.Cookies(),
		ContentType: r.Header.Get("Content-Type"),
		RemoteAddr:  remoteAddr,
		RemoteName:  remoteAddr,
		ServerName:  hostOnly(r.Host),
		Body:        body,
	}
	if req.ContentType == formContentType {
		if form, err := url.ParseQuery(string(body)); err == nil {
			req.form = form
		}
	}
	return req, nil
}

// FormValue returns a url-encoded form field, empty when absent
func (r *Request) FormValue(name string) string {
	if r.form == nil {
		return ""
	}
	return r.form.Get(name)
}

// Form returns the parsed url-encoded form, nil for other content types
func (r *Request) Form() url.Values {
	return r.form
}

func absoluteURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if fwd := r.Header.Get("X-Forwarded-Proto"); fwd != "" {
		scheme = fwd
	}
	u := url.URL{
		Scheme:   scheme,
		Host:     r.Host,
		Path:     r.URL.Path,
		RawPath:  r.URL.RawPath,
		RawQuery: r.URL.RawQuery,
	}
	return u.String()
}

func hostOnly(hostport string) string {
	host, _, err := net.SplitHostPort(hostport)
	if err != nil {
		return hostport
	}
	return host
}
