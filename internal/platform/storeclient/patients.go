package storeclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/clinicdesk/clinicdesk/internal/domain/identity"
)

var _ identity.Directory = (*Client)(nil)

func (c *Client) ListPatients(ctx context.Context) ([]identity.Patient, error) {
	items := []identity.Patient{}
	if err := c.do(ctx, http.MethodGet, "/patients", nil, nil, &items); err != nil {
		return nil, err
	}
	return nonNil(items), nil
}

func (c *Client) GetPatient(ctx context.Context, id int) (*identity.Patient, error) {
	var p identity.Patient
	if err := c.do(ctx, http.MethodGet, itemPath("patients", id), nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) SearchPatients(ctx context.Context, q string) ([]identity.Patient, error) {
	items := []identity.Patient{}
	if err := c.do(ctx, http.MethodGet, "/patients/search", url.Values{"q": {q}}, nil, &items); err != nil {
		return nil, err
	}
	return nonNil(items), nil
}

func (c *Client) CreatePatient(ctx context.Context, f identity.PatientForm) (*identity.Patient, error) {
	var p identity.Patient
	if err := c.do(ctx, http.MethodPost, "/patients", nil, f, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdatePatient(ctx context.Context, id int, f identity.PatientForm) (*identity.Patient, error) {
	var p identity.Patient
	if err := c.do(ctx, http.MethodPut, itemPath("patients", id), nil, f, &p); err != nil {
		return nil, err
	}
	if p.ID == 0 {
		p.ID = id
	}
	return &p, nil
}

func (c *Client) DeletePatient(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, itemPath("patients", id), nil, nil, nil)
}

func (c *Client) ListDoctors(ctx context.Context) ([]identity.Doctor, error) {
	items := []identity.Doctor{}
	if err := c.do(ctx, http.MethodGet, "/doctors", nil, nil, &items); err != nil {
		return nil, err
	}
	return nonNil(items), nil
}
