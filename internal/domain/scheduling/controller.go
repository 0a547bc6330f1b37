package scheduling

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/clinicdesk/clinicdesk/pkg/pagination"
)

// ErrSuperseded is returned by a load whose response arrived after a newer
// load was started. The stale response is dropped.
var ErrSuperseded = errors.New("load superseded by a newer request")

// Notifier surfaces a failed operation to the user.
type Notifier interface {
	Notify(op string, err error)
}

type nopNotifier struct{}

func (nopNotifier) Notify(string, error) {}

// State is the view state of the appointments table. The controller owns
// the pointer it is given; read it through Snapshot.
type State struct {
	Appointments []Appointment
	Criteria     Criteria
	Page         int
	Loading      bool
	Generation   uint64
}

// Controller runs the appointment lifecycle against a source and keeps State
// in sync with the store.
type Controller struct {
	mu       sync.Mutex
	source   AppointmentSource
	state    *State
	notifier Notifier
	logger   zerolog.Logger
	pageSize int
	strict   bool
	inFlight bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithNotifier sets the failure notifier.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

// WithLogger sets the controller logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithPageSize overrides the table page size.
func WithPageSize(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithStrictStatus refuses edits to Completed and Cancelled appointments.
func WithStrictStatus(strict bool) Option {
	return func(c *Controller) { c.strict = strict }
}

// NewController creates a controller over source. A nil state is replaced by
// a fresh one starting on page 1.
func NewController(source AppointmentSource, state *State, opts ...Option) *Controller {
	if state == nil {
		state = &State{}
	}
	if state.Page < 1 {
		state.Page = 1
	}
	c := &Controller{
		source:   source,
		state:    state,
		notifier: nopNotifier{},
		logger:   zerolog.Nop(),
		pageSize: pagination.DefaultPageSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := *c.state
	s.Appointments = append([]Appointment(nil), c.state.Appointments...)
	return s
}

// Load fetches the collection for the current criteria and replaces the
// loaded set. The full collection is requested when no criteria are set.
func (c *Controller) Load(ctx context.Context) ([]Appointment, error) {
	c.mu.Lock()
	c.state.Generation++
	gen := c.state.Generation
	criteria := c.state.Criteria
	c.state.Loading = true
	c.mu.Unlock()

	items, err := c.fetch(ctx, criteria)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.state.Generation {
		c.logger.Debug().
			Uint64("generation", gen).
			Uint64("current", c.state.Generation).
			Msg("discarding stale appointment load")
		return nil, ErrSuperseded
	}
	c.state.Loading = false
	if err != nil {
		c.notifier.Notify("load appointments", err)
		return nil, fmt.Errorf("load appointments: %w", err)
	}
	c.state.Appointments = items
	return append([]Appointment(nil), items...), nil
}

func (c *Controller) fetch(ctx context.Context, criteria Criteria) ([]Appointment, error) {
	var (
		items []Appointment
		err   error
	)
	if criteria.IsZero() {
		items, err = c.source.ListAppointments(ctx)
	} else {
		items, err = c.source.SearchAppointments(ctx, criteria)
	}
	if err != nil {
		return nil, err
	}
	for i := range items {
		normalize(&items[i])
	}
	return items, nil
}

func normalize(a *Appointment) {
	if a.Status == "" {
		a.Status = StatusScheduled
	}
}

// Get fetches one appointment. An unknown id yields ErrInvalidReference.
func (c *Controller) Get(ctx context.Context, id int) (*Appointment, error) {
	a, err := c.source.GetAppointment(ctx, id)
	if err != nil {
		return nil, resolveErr("get appointment", id, err)
	}
	normalize(a)
	return a, nil
}

// Search replaces the criteria, resets to page 1 and loads.
func (c *Controller) Search(ctx context.Context, criteria Criteria) ([]Appointment, error) {
	c.mu.Lock()
	c.state.Criteria = criteria
	c.state.Page = 1
	c.mu.Unlock()
	return c.Load(ctx)
}

// Create validates f and submits it unchanged. On success the collection is
// reloaded and the table returns to page 1. On failure the state is left as is.
func (c *Controller) Create(ctx context.Context, f AppointmentForm) (*Appointment, error) {
	if verrs := ValidateAppointment(f); len(verrs) > 0 {
		return nil, verrs
	}
	if err := c.begin(); err != nil {
		return nil, err
	}
	a, err := c.source.CreateAppointment(ctx, f)
	c.end()
	if err != nil {
		c.notifier.Notify("create appointment", err)
		return nil, fmt.Errorf("create appointment: %w", err)
	}
	normalize(a)

	c.logger.Info().Int("appointment_id", a.ID).Msg("appointment created")

	c.mu.Lock()
	c.state.Page = 1
	c.mu.Unlock()
	if _, err := c.Load(ctx); err != nil && !errors.Is(err, ErrSuperseded) {
		return a, fmt.Errorf("reload after create: %w", err)
	}
	return a, nil
}

// Update applies the supplied fields over the stored appointment and sends
// the mutable subset. patient_id and doctor_id never change.
func (c *Controller) Update(ctx context.Context, id int, u AppointmentUpdate) (*Appointment, error) {
	if verrs := ValidateUpdate(u); len(verrs) > 0 {
		return nil, verrs
	}
	if err := c.begin(); err != nil {
		return nil, err
	}
	updated, err := c.update(ctx, id, u)
	c.end()
	if err != nil {
		if !errors.Is(err, ErrStatusLocked) {
			c.notifier.Notify("update appointment", err)
		}
		return nil, err
	}

	c.logger.Info().Int("appointment_id", id).Str("status", string(updated.Status)).Msg("appointment updated")

	if _, err := c.Load(ctx); err != nil && !errors.Is(err, ErrSuperseded) {
		return updated, fmt.Errorf("reload after update: %w", err)
	}
	return updated, nil
}

func (c *Controller) update(ctx context.Context, id int, u AppointmentUpdate) (*Appointment, error) {
	current, err := c.source.GetAppointment(ctx, id)
	if err != nil {
		return nil, resolveErr("update appointment", id, err)
	}
	if c.strict && current.Status.Final() {
		return nil, fmt.Errorf("update appointment %d: %w", id, ErrStatusLocked)
	}
	normalize(current)
	payload := u.Apply(*current)
	updated, err := c.source.UpdateAppointment(ctx, id, payload)
	if err != nil {
		return nil, resolveErr("update appointment", id, err)
	}
	normalize(updated)
	return updated, nil
}

// Remove deletes the appointment. Although presented as "cancel", this is a
// destructive removal and not a transition to Cancelled.
func (c *Controller) Remove(ctx context.Context, id int) error {
	if err := c.begin(); err != nil {
		return err
	}
	err := c.source.DeleteAppointment(ctx, id)
	c.end()
	if err != nil {
		err = resolveErr("delete appointment", id, err)
		c.notifier.Notify("delete appointment", err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.state.Appointments[:0:0]
	for _, a := range c.state.Appointments {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	c.state.Appointments = kept
	if pages := pagination.New(c.state.Page, c.pageSize).TotalPages(len(kept)); c.state.Page > pages && pages > 0 {
		c.state.Page = pages
	}
	c.logger.Info().Int("appointment_id", id).Msg("appointment removed")
	return nil
}

func resolveErr(op string, id int, err error) error {
	if IsNotFound(err) {
		return fmt.Errorf("%s %d: %w", op, id, ErrInvalidReference)
	}
	return fmt.Errorf("%s %d: %w", op, id, err)
}

// SetPage moves the table to page n. Out-of-range pages are allowed and show
// an empty window.
func (c *Controller) SetPage(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Page = n
}

// Visible returns the current page window.
func (c *Controller) Visible() pagination.Window[Appointment] {
	c.mu.Lock()
	defer c.mu.Unlock()
	w := Paginate(c.state.Appointments, c.state.Page, c.pageSize)
	w.Items = append(make([]Appointment, 0, len(w.Items)), w.Items...)
	return w
}

// Paginate returns the window for page over items.
func Paginate(items []Appointment, page, pageSize int) pagination.Window[Appointment] {
	return pagination.Paginate(items, pagination.New(page, pageSize))
}

func (c *Controller) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight {
		return ErrBusy
	}
	c.inFlight = true
	return nil
}

func (c *Controller) end() {
	c.mu.Lock()
	c.inFlight = false
	c.mu.Unlock()
}
