// Package notification surfaces failed operations to the person at the desk.
// Each failure is rendered from a per-operation template, written to an
// output stream, logged and kept in a bounded history.
package notification

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ---------------------------------------------------------------------------
// Notice
// ---------------------------------------------------------------------------

// Notice is one rendered failure message.
type Notice struct {
	ID        string    `json:"id"`
	Operation string    `json:"operation"`
	Message   string    `json:"message"`
	Error     string    `json:"error"`
	CreatedAt time.Time `json:"created_at"`
}

// ---------------------------------------------------------------------------
// Templates
// ---------------------------------------------------------------------------

const fallbackTemplate = "Failed to {{operation}}: {{error}}"

var builtInTemplates = map[string]string{
	"load appointments":  "Could not load appointments: {{error}}",
	"create appointment": "Failed to book appointment: {{error}}",
	"update appointment": "Failed to update appointment: {{error}}",
	"delete appointment": "Failed to cancel appointment: {{error}}",
	"sample fallback":    "Store unreachable, showing sample data ({{error}})",
}

// render performs {{key}} replacement. Unknown keys are left as-is.
func render(tpl string, data map[string]string) string {
	for k, v := range data {
		tpl = strings.ReplaceAll(tpl, "{{"+k+"}}", v)
	}
	return tpl
}

// ---------------------------------------------------------------------------
// Notifier
// ---------------------------------------------------------------------------

const defaultHistory = 50

// Notifier renders failures to out and the logger. It satisfies the
// scheduling.Notifier interface.
type Notifier struct {
	mu        sync.Mutex
	out       io.Writer
	logger    zerolog.Logger
	templates map[string]string
	history   []Notice
	limit     int
	now       func() time.Time
}

// NewNotifier creates a Notifier writing to out. A nil out only logs.
func NewNotifier(out io.Writer, logger zerolog.Logger) *Notifier {
	tpls := make(map[string]string, len(builtInTemplates))
	for k, v := range builtInTemplates {
		tpls[k] = v
	}
	return &Notifier{
		out:       out,
		logger:    logger,
		templates: tpls,
		limit:     defaultHistory,
		now:       time.Now,
	}
}

// RegisterTemplate adds or replaces the template for op.
func (n *Notifier) RegisterTemplate(op, tpl string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.templates[op] = tpl
}

// Notify records a failure of op.
func (n *Notifier) Notify(op string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}

	n.mu.Lock()
	tpl, ok := n.templates[op]
	if !ok {
		tpl = fallbackTemplate
	}
	notice := Notice{
		ID:        uuid.New().String(),
		Operation: op,
		Message:   render(tpl, map[string]string{"operation": op, "error": msg}),
		Error:     msg,
		CreatedAt: n.now().UTC(),
	}
	n.history = append(n.history, notice)
	if len(n.history) > n.limit {
		n.history = n.history[len(n.history)-n.limit:]
	}
	out := n.out
	n.mu.Unlock()

	n.logger.Error().
		Str("notice_id", notice.ID).
		Str("operation", op).
		Str("error", msg).
		Msg("operation failed")

	if out != nil {
		fmt.Fprintln(out, notice.Message)
	}
}

// Fallback adapts the notifier to the fallback callback of the data sources.
func (n *Notifier) Fallback(op string, err error) {
	n.Notify("sample fallback", fmt.Errorf("%s: %w", op, err))
}

// History returns the recorded notices, oldest first.
func (n *Notifier) History() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notice(nil), n.history...)
}
