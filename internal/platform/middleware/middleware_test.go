package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicdesk/clinicdesk/internal/platform/telemetry"
)

func okTransport(status int, seen *http.Request) http.RoundTripper {
	return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		*seen = *req
		return &http.Response{StatusCode: status, Header: http.Header{}, Body: http.NoBody, Request: req}, nil
	})
}

func TestRequestID_GeneratesNew(t *testing.T) {
	var seen http.Request
	rt := Chain(okTransport(http.StatusOK, &seen), RequestID())

	req := httptest.NewRequest(http.MethodGet, "http://store/appointments", nil)
	if _, err := rt.RoundTrip(req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rid := seen.Header.Get(RequestIDHeader)
	if _, err := uuid.Parse(rid); err != nil {
		t.Errorf("expected a uuid request id, got %q", rid)
	}
	if req.Header.Get(RequestIDHeader) != "" {
		t.Error("the caller's request must not be mutated")
	}
}

func TestRequestID_PreservesExisting(t *testing.T) {
	var seen http.Request
	rt := Chain(okTransport(http.StatusOK, &seen), RequestID())

	req := httptest.NewRequest(http.MethodGet, "http://store/appointments", nil)
	req.Header.Set(RequestIDHeader, "my-custom-id")
	rt.RoundTrip(req)

	if got := seen.Header.Get(RequestIDHeader); got != "my-custom-id" {
		t.Errorf("expected my-custom-id, got %s", got)
	}
}

func TestRequestID_FromContext(t *testing.T) {
	var seen http.Request
	rt := Chain(okTransport(http.StatusOK, &seen), RequestID())

	ctx := WithRequestID(context.Background(), "cli-run-7")
	req := httptest.NewRequest(http.MethodGet, "http://store/doctors", nil).WithContext(ctx)
	rt.RoundTrip(req)

	if got := seen.Header.Get(RequestIDHeader); got != "cli-run-7" {
		t.Errorf("expected cli-run-7, got %s", got)
	}
}

func TestChain_Order(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.RoundTripper) http.RoundTripper {
			return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
				order = append(order, name)
				return next.RoundTrip(req)
			})
		}
	}
	var seen http.Request
	rt := Chain(okTransport(http.StatusOK, &seen), mark("outer"), mark("inner"))
	rt.RoundTrip(httptest.NewRequest(http.MethodGet, "http://store/", nil))

	if strings.Join(order, ",") != "outer,inner" {
		t.Errorf("unexpected order %v", order)
	}
}

func TestLogger_LevelsByStatus(t *testing.T) {
	cases := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "debug"},
		{http.StatusNotFound, "warn"},
		{http.StatusBadGateway, "error"},
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		var seen http.Request
		rt := Chain(okTransport(tc.status, &seen), Logger(zerolog.New(&buf)))
		rt.RoundTrip(httptest.NewRequest(http.MethodGet, "http://store/appointments/3", nil))

		out := buf.String()
		if !strings.Contains(out, `"level":"`+tc.level+`"`) {
			t.Errorf("status %d: expected level %s, got %s", tc.status, tc.level, out)
		}
		if !strings.Contains(out, `"path":"/appointments/3"`) {
			t.Errorf("status %d: expected path in log, got %s", tc.status, out)
		}
	}
}

func TestLogger_TransportError(t *testing.T) {
	var buf bytes.Buffer
	failing := RoundTripperFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})
	rt := Chain(failing, Logger(zerolog.New(&buf)))

	if _, err := rt.RoundTrip(httptest.NewRequest(http.MethodGet, "http://store/", nil)); err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(buf.String(), "connection refused") {
		t.Errorf("expected error in log, got %s", buf.String())
	}
}

func TestRecovery(t *testing.T) {
	panicking := RoundTripperFunc(func(*http.Request) (*http.Response, error) {
		panic("boom")
	})
	rt := Chain(panicking, Recovery(zerolog.Nop()))

	_, err := rt.RoundTrip(httptest.NewRequest(http.MethodGet, "http://store/", nil))
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("expected recovered panic as error, got %v", err)
	}
}

func TestMetrics_RecordsRoute(t *testing.T) {
	m := telemetry.NewMetrics()
	var seen http.Request
	rt := Chain(okTransport(http.StatusOK, &seen), Metrics(m))
	rt.RoundTrip(httptest.NewRequest(http.MethodPut, "http://store/appointments/12", nil))

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	defer resp.Body.Close()
	var body bytes.Buffer
	body.ReadFrom(resp.Body)

	want := `clinicdesk_store_requests_total{method="PUT",route="/appointments/{id}",status_code="200"} 1`
	if !strings.Contains(body.String(), want) {
		t.Errorf("expected %q in metrics output", want)
	}
}

func TestRoute(t *testing.T) {
	cases := map[string]string{
		"/appointments":        "/appointments",
		"/appointments/42":     "/appointments/{id}",
		"/patients/7":          "/patients/{id}",
		"/appointments/search": "/appointments/search",
		"/api/v1/patients/3/x": "/api/v1/patients/{id}/x",
	}
	for in, want := range cases {
		if got := Route(in); got != want {
			t.Errorf("Route(%q) = %q, want %q", in, got, want)
		}
	}
}
