package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

func Logger(logger zerolog.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()

			resp, err := next.RoundTrip(req)

			evt := logger.Debug()
			status := 0
			switch {
			case err != nil:
				evt = logger.Error().Err(err)
			case resp.StatusCode >= 500:
				status = resp.StatusCode
				evt = logger.Error()
			case resp.StatusCode >= 400:
				status = resp.StatusCode
				evt = logger.Warn()
			default:
				status = resp.StatusCode
			}

			evt.
				Str("request_id", req.Header.Get(RequestIDHeader)).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", status).
				Dur("latency", time.Since(start)).
				Msg("store request")

			return resp, err
		})
	}
}
