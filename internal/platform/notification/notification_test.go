package notification

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

func TestNotifier_BuiltInTemplate(t *testing.T) {
	var out bytes.Buffer
	n := NewNotifier(&out, zerolog.Nop())

	n.Notify("create appointment", errors.New("HTTP error, status 500"))

	if got := strings.TrimSpace(out.String()); got != "Failed to book appointment: HTTP error, status 500" {
		t.Errorf("output = %q", got)
	}
	h := n.History()
	if len(h) != 1 {
		t.Fatalf("expected 1 notice, got %d", len(h))
	}
	if h[0].Operation != "create appointment" || h[0].ID == "" {
		t.Errorf("unexpected notice %+v", h[0])
	}
}

func TestNotifier_UnknownOperationUsesFallbackTemplate(t *testing.T) {
	var out bytes.Buffer
	n := NewNotifier(&out, zerolog.Nop())

	n.Notify("delete patient", errors.New("patient not found"))

	if got := strings.TrimSpace(out.String()); got != "Failed to delete patient: patient not found" {
		t.Errorf("output = %q", got)
	}
}

func TestNotifier_RegisterTemplate(t *testing.T) {
	var out bytes.Buffer
	n := NewNotifier(&out, zerolog.Nop())
	n.RegisterTemplate("list doctors", "Roster unavailable ({{error}})")

	n.Notify("list doctors", errors.New("timeout"))

	if got := strings.TrimSpace(out.String()); got != "Roster unavailable (timeout)" {
		t.Errorf("output = %q", got)
	}
}

func TestNotifier_LogsError(t *testing.T) {
	var logs bytes.Buffer
	n := NewNotifier(nil, zerolog.New(&logs))

	n.Notify("load appointments", errors.New("connection refused"))

	line := logs.String()
	if !strings.Contains(line, `"operation":"load appointments"`) || !strings.Contains(line, `"level":"error"`) {
		t.Errorf("unexpected log line %s", line)
	}
}

func TestNotifier_NilError(t *testing.T) {
	n := NewNotifier(nil, zerolog.Nop())
	n.Notify("update appointment", nil)
	if h := n.History(); h[0].Error != "unknown error" {
		t.Errorf("expected placeholder error text, got %q", h[0].Error)
	}
}

func TestNotifier_Fallback(t *testing.T) {
	var out bytes.Buffer
	n := NewNotifier(&out, zerolog.Nop())
	n.Fallback("list_appointments", errors.New("dial tcp: refused"))

	if !strings.Contains(out.String(), "showing sample data (list_appointments: dial tcp: refused)") {
		t.Errorf("output = %q", out.String())
	}
}

func TestNotifier_HistoryIsBounded(t *testing.T) {
	n := NewNotifier(nil, zerolog.Nop())
	n.limit = 3
	for i := 0; i < 5; i++ {
		n.Notify("load appointments", errors.New("boom"))
	}
	if got := len(n.History()); got != 3 {
		t.Errorf("expected 3 notices, got %d", got)
	}
}

func TestNotifier_Concurrent(t *testing.T) {
	n := NewNotifier(nil, zerolog.Nop())
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n.Notify("load appointments", errors.New("boom"))
		}()
	}
	wg.Wait()
	if got := len(n.History()); got != 20 {
		t.Errorf("expected 20 notices, got %d", got)
	}
}
