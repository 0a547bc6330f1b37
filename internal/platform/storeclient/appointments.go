package storeclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/clinicdesk/clinicdesk/internal/domain/scheduling"
)

var _ scheduling.AppointmentSource = (*Client)(nil)

func (c *Client) ListAppointments(ctx context.Context) ([]scheduling.Appointment, error) {
	items := []scheduling.Appointment{}
	if err := c.do(ctx, http.MethodGet, c.listPath, nil, nil, &items); err != nil {
		return nil, err
	}
	return nonNil(items), nil
}

// SearchAppointments sends only the criteria fields that are set.
func (c *Client) SearchAppointments(ctx context.Context, cr scheduling.Criteria) ([]scheduling.Appointment, error) {
	q := url.Values{}
	if cr.Name != "" {
		q.Set("name", cr.Name)
	}
	if cr.Phone != "" {
		q.Set("phone", cr.Phone)
	}
	if cr.Date != "" {
		q.Set("date", cr.Date)
	}
	items := []scheduling.Appointment{}
	if err := c.do(ctx, http.MethodGet, "/appointments/search", q, nil, &items); err != nil {
		return nil, err
	}
	return nonNil(items), nil
}

func (c *Client) GetAppointment(ctx context.Context, id int) (*scheduling.Appointment, error) {
	var a scheduling.Appointment
	if err := c.do(ctx, http.MethodGet, itemPath("appointments", id), nil, nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) CreateAppointment(ctx context.Context, f scheduling.AppointmentForm) (*scheduling.Appointment, error) {
	var a scheduling.Appointment
	if err := c.do(ctx, http.MethodPost, "/appointments", nil, f, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) UpdateAppointment(ctx context.Context, id int, p scheduling.UpdatePayload) (*scheduling.Appointment, error) {
	var a scheduling.Appointment
	if err := c.do(ctx, http.MethodPut, itemPath("appointments", id), nil, p, &a); err != nil {
		return nil, err
	}
	if a.ID == 0 {
		a.ID = id
	}
	return &a, nil
}

func (c *Client) DeleteAppointment(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, itemPath("appointments", id), nil, nil, nil)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
