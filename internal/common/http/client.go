// internal/common/http/client.go
package http

import (
	"context"
	"net/http"
	"time"
)

// ClientRequestIDHeader lets upstream logs be correlated with ours.
const ClientRequestIDHeader = "X-Client-Request-Id"

type requestIDKey struct{}

// WithRequestID stores the inbound request ID on ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request ID stored by WithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// NewClient returns an outbound client. A zero timeout leaves the request
// bounded only by its context.
func NewClient(timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 16

	return &http.Client{
		Timeout:   timeout,
		Transport: &requestIDTransport{next: transport},
	}
}

type requestIDTransport struct {
	next http.RoundTripper
}

func (t *requestIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	id := RequestIDFromContext(req.Context())
	if id == "" || req.Header.Get(ClientRequestIDHeader) != "" {
		return t.next.RoundTrip(req)
	}
	// RoundTrippers must not mutate the caller's request.
	clone := req.Clone(req.Context())
	clone.Header.Set(ClientRequestIDHeader, id)
	return t.next.RoundTrip(clone)
}
