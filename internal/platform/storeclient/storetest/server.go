// Package storetest runs an in-process fake of the remote store for tests.
// It is an echo app backed by the sample sources.
package storetest

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/clinicdesk/clinicdesk/internal/domain/identity"
	"github.com/clinicdesk/clinicdesk/internal/domain/scheduling"
)

// Request is one request received by the fake store.
type Request struct {
	Method    string
	Path      string
	Query     string
	Body      []byte
	RequestID string
}

// Server is a fake store. Appointments and Directory may be inspected and
// modified directly.
type Server struct {
	*httptest.Server

	Appointments *scheduling.SampleSource
	Directory    *identity.SampleDirectory

	mu        sync.Mutex
	requests  []Request
	failCode  int
	failPlain string
	failMsg   string
}

// NewServer starts a fake store seeded with the sample data. listPath is the
// appointment collection route; empty means /appointments.
func NewServer(listPath string) *Server {
	if listPath == "" {
		listPath = "/appointments"
	}
	s := &Server{
		Appointments: scheduling.NewSampleSource(),
		Directory:    identity.NewSampleDirectory(),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(s.record, s.injectFailure)
	s.RegisterRoutes(e, listPath)

	s.Server = httptest.NewServer(e)
	return s
}

func (s *Server) RegisterRoutes(e *echo.Echo, listPath string) {
	e.GET(listPath, s.listAppointments)
	e.GET("/appointments/search", s.searchAppointments)
	e.GET("/appointments/:id", s.getAppointment)
	e.POST("/appointments", s.createAppointment)
	e.PUT("/appointments/:id", s.updateAppointment)
	e.DELETE("/appointments/:id", s.deleteAppointment)

	e.GET("/patients", s.listPatients)
	e.GET("/patients/search", s.searchPatients)
	e.GET("/patients/:id", s.getPatient)
	e.POST("/patients", s.createPatient)
	e.PUT("/patients/:id", s.updatePatient)
	e.DELETE("/patients/:id", s.deletePatient)

	e.GET("/doctors", s.listDoctors)
}

// FailWith makes every following request answer status with a JSON message.
func (s *Server) FailWith(status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failCode, s.failMsg, s.failPlain = status, message, ""
}

// FailPlain makes every following request answer status with a non-JSON body.
func (s *Server) FailPlain(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failCode, s.failMsg, s.failPlain = status, "", body
}

// Recover clears an injected failure.
func (s *Server) Recover() {
	s.FailWith(0, "")
}

// Requests returns the requests received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Last returns the most recent request.
func (s *Server) Last() Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}
	}
	return s.requests[len(s.requests)-1]
}

func (s *Server) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		var body []byte
		if req.Body != nil {
			body, _ = io.ReadAll(req.Body)
			req.Body = io.NopCloser(bytes.NewReader(body))
		}
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:    req.Method,
			Path:      req.URL.Path,
			Query:     req.URL.RawQuery,
			Body:      body,
			RequestID: req.Header.Get("X-Request-ID"),
		})
		s.mu.Unlock()
		return next(c)
	}
}

func (s *Server) injectFailure(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.mu.Lock()
		code, msg, plain := s.failCode, s.failMsg, s.failPlain
		s.mu.Unlock()
		switch {
		case code == 0:
			return next(c)
		case plain != "":
			return c.String(code, plain)
		case msg != "":
			return echo.NewHTTPError(code, msg)
		default:
			return c.NoContent(code)
		}
	}
}

func paramID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// -- Appointments --

func (s *Server) listAppointments(c echo.Context) error {
	items, _ := s.Appointments.ListAppointments(c.Request().Context())
	return c.JSON(http.StatusOK, items)
}

func (s *Server) searchAppointments(c echo.Context) error {
	cr := scheduling.Criteria{
		Name:  c.QueryParam("name"),
		Phone: c.QueryParam("phone"),
		Date:  c.QueryParam("date"),
	}
	items, _ := s.Appointments.SearchAppointments(c.Request().Context(), cr)
	return c.JSON(http.StatusOK, items)
}

func (s *Server) getAppointment(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	a, err := s.Appointments.GetAppointment(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
	}
	return c.JSON(http.StatusOK, a)
}

func (s *Server) createAppointment(c echo.Context) error {
	var f scheduling.AppointmentForm
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := s.Appointments.CreateAppointment(c.Request().Context(), f)
	if errors.Is(err, scheduling.ErrSlotTaken) {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, a)
}

func (s *Server) updateAppointment(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var p scheduling.UpdatePayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := s.Appointments.UpdateAppointment(c.Request().Context(), id, p)
	switch {
	case scheduling.IsNotFound(err):
		return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
	case errors.Is(err, scheduling.ErrSlotTaken):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case err != nil:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, a)
}

func (s *Server) deleteAppointment(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := s.Appointments.DeleteAppointment(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Patients --

func (s *Server) listPatients(c echo.Context) error {
	items, _ := s.Directory.ListPatients(c.Request().Context())
	return c.JSON(http.StatusOK, items)
}

func (s *Server) searchPatients(c echo.Context) error {
	items, _ := s.Directory.SearchPatients(c.Request().Context(), c.QueryParam("q"))
	return c.JSON(http.StatusOK, items)
}

func (s *Server) getPatient(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	p, err := s.Directory.GetPatient(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) createPatient(c echo.Context) error {
	var f identity.PatientForm
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := s.Directory.CreatePatient(c.Request().Context(), f)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}

func (s *Server) updatePatient(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var f identity.PatientForm
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := s.Directory.UpdatePatient(c.Request().Context(), id, f)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) deletePatient(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := s.Directory.DeletePatient(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) listDoctors(c echo.Context) error {
	items, _ := s.Directory.ListDoctors(c.Request().Context())
	return c.JSON(http.StatusOK, items)
}
