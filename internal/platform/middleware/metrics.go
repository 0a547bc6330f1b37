package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/clinicdesk/clinicdesk/internal/platform/telemetry"
)

// Metrics records every round trip on m, labelled by method and route.
func Metrics(m *telemetry.Metrics) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(req)
			status := 0
			if err == nil {
				status = resp.StatusCode
			}
			m.ObserveRequest(req.Method, Route(req.URL.Path), status, time.Since(start))
			return resp, err
		})
	}
}

// Route collapses numeric path segments to {id} to keep label cardinality
// bounded.
func Route(path string) string {
	segs := strings.Split(path, "/")
	for i, s := range segs {
		if s != "" && isDigits(s) {
			segs[i] = "{id}"
		}
	}
	return strings.Join(segs, "/")
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
