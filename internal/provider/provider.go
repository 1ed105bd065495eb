// Package provider normalizes external text-generation HTTP protocols
// behind one internal contract. Two variants exist: a chat-completions
// style API (bearer credential) and a generateContent style API
// (credential as query parameter). Selection between them is a wiring
// concern; callers only see Client.
//
// Adapter rules: exactly one HTTP request per call, bounded timeout, no
// retry (a retry would duplicate billable generation). A missing
// credential is reported as ErrNotConfigured before any network I/O.
// Everything that goes wrong past that point surfaces as *Error with a
// short diagnostic reason; the adapter never panics and never returns
// partial text.
package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// ErrNotConfigured indicates no provider credential is configured.
// This is a valid, expected runtime state, not a deployment fault.
var ErrNotConfigured = errors.New("ai provider credential not configured")

// Error is a provider invocation failure: network error, timeout,
// non-success status, or a malformed response envelope.
type Error struct {
	Reason string
}

func (e *Error) Error() string {
	return "ai provider: " + e.Reason
}

// Client is the internal contract for the external generation service.
// Generate produces new content from a generation prompt; Refine improves
// existing content from a refinement prompt. Both return the provider's
// first candidate text verbatim, including any markdown fencing the
// provider emitted despite instructions.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Refine(ctx context.Context, prompt string) (string, error)
	Name() string
}

const (
	dialTimeout           = 10 * time.Second
	tlsHandshakeTimeout   = 10 * time.Second
	responseHeaderTimeout = 30 * time.Second
)

// newHTTPClient creates an HTTP client configured for provider calls.
// The total timeout bounds the whole round trip including body read.
func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   dialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   tlsHandshakeTimeout,
			ResponseHeaderTimeout: responseHeaderTimeout,
			MaxIdleConns:          10,
			MaxIdleConnsPerHost:   2,
			IdleConnTimeout:       90 * time.Second,
		},
	}
}

// statusError builds the diagnostic for a non-success HTTP status.
func statusError(status int, body []byte) *Error {
	const maxBodySnippet = 200
	snippet := string(body)
	if len(snippet) > maxBodySnippet {
		snippet = snippet[:maxBodySnippet]
	}
	return &Error{Reason: fmt.Sprintf("unexpected status %d: %s", status, snippet)}
}
