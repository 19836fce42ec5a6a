package signature

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

/* Slack request signing (v0)
 * basestring = v0:{timestamp}:{body}
 * signature  = v0=hex(hmac_sha256(signing_secret, basestring))
 */

const (
	// SignatureVersion is the version identifier for Slack signatures
	SignatureVersion = "v0"

	// SignatureHeader carries the request signature
	SignatureHeader = "X-Slack-Signature"

	// TimestampHeader carries the unix timestamp the request was signed at
	TimestampHeader = "X-Slack-Request-Timestamp"

	// DefaultTolerance is how far a timestamp may drift before a request is rejected
	DefaultTolerance = 5 * time.Minute
)

var (
	ErrMissingHeaders   = errors.New("missing signature headers")
	ErrStaleTimestamp   = errors.New("request timestamp outside tolerance")
	ErrInvalidSignature = errors.New("invalid signature")
)

// Sign computes the v0 signature of a request body
func Sign(secret string, timestamp time.Time, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s:%d:", SignatureVersion, timestamp.Unix())
	mac.Write(body)
	return SignatureVersion + "=" + hex.EncodeToString(mac.Sum(nil))
}

// Verifier checks request signatures against one or more secrets (for rotation)
type Verifier struct {
	secrets   []string
	tolerance time.Duration
	now       func() time.Time
}

// NewVerifier creates a verifier; empty secrets are ignored
func NewVerifier(secrets ...string) *Verifier {
	v := &Verifier{tolerance: DefaultTolerance, now: time.Now}
	for _, s := range secrets {
		if s != "" {
			v.secrets = append(v.secrets, s)
		}
	}
	return v
}

// WithClock replaces the time source
func (v *Verifier) WithClock(now func() time.Time) *Verifier {
	v.now = now
	return v
}

// Enabled reports whether any secret is configured
func (v *Verifier) Enabled() bool {
	return len(v.secrets) > 0
}

// Verify validates the timestamp and signature headers against body
func (v *Verifier) Verify(timestampHeader, signatureHeader string, body []byte) error {
	if timestampHeader == "" || signatureHeader == "" {
		return ErrMissingHeaders
	}

	ts, err := strconv.ParseInt(timestampHeader, 10, 64)
	if err != nil {
		return fmt.Errorf("parsing timestamp: %w", err)
	}
	signedAt := time.Unix(ts, 0)
	drift := v.now().Sub(signedAt)
	if drift < 0 {
		drift = -drift
	}
	if drift > v.tolerance {
		return ErrStaleTimestamp
	}

	if !strings.HasPrefix(signatureHeader, SignatureVersion+"=") {
		return fmt.Errorf("unsupported signature version: %s", signatureHeader)
	}
	given, err := hex.DecodeString(strings.TrimPrefix(signatureHeader, SignatureVersion+"="))
	if err != nil {
		return fmt.Errorf("decoding signature: %w", err)
	}

	for _, secret := range v.secrets {
		expected, _ := hex.DecodeString(strings.TrimPrefix(Sign(secret, signedAt, body), SignatureVersion+"="))
		if hmac.Equal(given, expected) {
			return nil
		}
	}
	return ErrInvalidSignature
}

// Middleware rejects unsigned or badly signed requests with 401.
// It is a pass-through when no secret is configured.
func (v *Verifier) Middleware(next http.Handler) http.Handler {
	if !v.Enabled() {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		if err != nil {
			http.Error(w, "unable to read body", http.StatusBadRequest)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		if err := v.Verify(r.Header.Get(TimestampHeader), r.Header.Get(SignatureHeader), body); err != nil {
			http.Error(w, "invalid request signature", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
