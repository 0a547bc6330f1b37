package middleware

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestID sets X-Request-ID on every outbound request. An id already on the
// request or in its context is kept.
func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if req.Header.Get(RequestIDHeader) != "" {
				return next.RoundTrip(req)
			}
			rid := RequestIDFrom(req.Context())
			if rid == "" {
				rid = uuid.New().String()
			}
			req = req.Clone(req.Context())
			req.Header.Set(RequestIDHeader, rid)
			return next.RoundTrip(req)
		})
	}
}
