package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/clinicdesk/clinicdesk/internal/domain/scheduling"
	"github.com/clinicdesk/clinicdesk/pkg/pagination"
)

func appointmentsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "appointments",
		Aliases: []string{"appt"},
		Short:   "List, book, edit and cancel appointments",
	}
	cmd.AddCommand(appointmentsListCmd(a, "list", "List appointments, optionally filtered"))
	cmd.AddCommand(appointmentsListCmd(a, "search", "Search appointments by patient name, phone or date"))
	cmd.AddCommand(appointmentGetCmd(a))
	cmd.AddCommand(appointmentCreateCmd(a))
	cmd.AddCommand(appointmentUpdateCmd(a))
	cmd.AddCommand(appointmentDeleteCmd(a))
	return cmd
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

func appointmentsListCmd(a *app, use, short string) *cobra.Command {
	var criteria scheduling.Criteria
	var page int

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if use == "search" && criteria.IsZero() {
				return errors.New("search needs at least one of --name, --phone or --date")
			}
			ctx, cancel := commandContext(cmd.Context())
			defer cancel()

			if _, err := a.ctrl.Search(ctx, criteria); err != nil {
				return err
			}
			a.ctrl.SetPage(page)
			return a.renderAppointments(a.ctrl.Visible())
		},
	}
	cmd.Flags().StringVar(&criteria.Name, "name", "", "patient name contains (case-insensitive)")
	cmd.Flags().StringVar(&criteria.Phone, "phone", "", "phone number contains")
	cmd.Flags().StringVar(&criteria.Date, "date", "", "exact appointment date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&page, "page", 1, "page number, 50 appointments per page")
	return cmd
}

func (a *app) renderAppointments(w pagination.Window[scheduling.Appointment]) error {
	return a.render(w, func(tw io.Writer) {
		row(tw, "ID", "DATE", "TIME", "PATIENT", "PHONE", "DOCTOR", "STATUS", "REASON")
		for _, appt := range w.Items {
			row(tw, appt.ID, appt.AppointmentDate, appt.AppointmentTime, orDash(appt.PatientName),
				orDash(appt.Phone), orDash(appt.DoctorName), appt.Status, appt.Reason)
		}
		fmt.Fprintf(tw, "\npage %d of %d (%d appointments)\n", w.Page, w.TotalPages, w.Total)
	})
}

func (a *app) renderAppointment(appt *scheduling.Appointment) error {
	return a.render(appt, func(tw io.Writer) {
		row(tw, "ID", appt.ID)
		row(tw, "PATIENT", fmt.Sprintf("%s (#%d)", orDash(appt.PatientName), appt.PatientID))
		row(tw, "PHONE", orDash(appt.Phone))
		row(tw, "DOCTOR", fmt.Sprintf("%s (#%d)", orDash(appt.DoctorName), appt.DoctorID))
		row(tw, "DATE", appt.AppointmentDate)
		row(tw, "TIME", appt.AppointmentTime)
		row(tw, "STATUS", appt.Status)
		row(tw, "REASON", appt.Reason)
	})
}

func appointmentGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show one appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd.Context())
			defer cancel()

			appt, err := a.ctrl.Get(ctx, id)
			if err != nil {
				return err
			}
			return a.renderAppointment(appt)
		},
	}
}

func appointmentCreateCmd(a *app) *cobra.Command {
	var f scheduling.AppointmentForm
	var status string

	cmd := &cobra.Command{
		Use:     "create",
		Aliases: []string{"book"},
		Short:   "Book an appointment",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if status != "" {
				f.Status = scheduling.Status(status)
			}
			verrs := scheduling.ValidateAppointment(f)
			for k, v := range scheduling.CheckBookable(f.AppointmentDate, f.AppointmentTime, now()) {
				if _, seen := verrs[k]; !seen {
					if verrs == nil {
						verrs = scheduling.ValidationErrors{}
					}
					verrs[k] = v
				}
			}
			if verrs != nil {
				return verrs
			}

			ctx, cancel := commandContext(cmd.Context())
			defer cancel()
			appt, err := a.ctrl.Create(ctx, f)
			if err != nil && appt == nil {
				return err
			}
			if err != nil {
				a.logger.Warn().Err(err).Msg("appointment booked but the list could not be refreshed")
			}
			return a.renderAppointment(appt)
		},
	}
	cmd.Flags().IntVar(&f.PatientID, "patient", 0, "patient id")
	cmd.Flags().IntVar(&f.DoctorID, "doctor", 0, "doctor id")
	cmd.Flags().StringVar(&f.AppointmentDate, "date", "", "appointment date (YYYY-MM-DD), today or later")
	cmd.Flags().StringVar(&f.AppointmentTime, "time", "", "slot time (HH:MM), see the slots command")
	cmd.Flags().StringVar(&f.Reason, "reason", "", "reason for the visit, 3 to 500 characters")
	cmd.Flags().StringVar(&status, "status", "", "initial status (default Scheduled)")
	return cmd
}

func appointmentUpdateCmd(a *app) *cobra.Command {
	var date, tm, reason, status string

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change the date, time, reason or status of an appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var u scheduling.AppointmentUpdate
			if cmd.Flags().Changed("date") {
				u.AppointmentDate = &date
			}
			if cmd.Flags().Changed("time") {
				u.AppointmentTime = &tm
			}
			if cmd.Flags().Changed("reason") {
				u.Reason = &reason
			}
			if cmd.Flags().Changed("status") {
				s := scheduling.Status(status)
				u.Status = &s
			}
			if u.IsZero() {
				return errors.New("nothing to update: pass --date, --time, --reason or --status")
			}
			if verrs := scheduling.CheckBookableUpdate(u, now()); verrs != nil {
				return verrs
			}

			ctx, cancel := commandContext(cmd.Context())
			defer cancel()
			appt, err := a.ctrl.Update(ctx, id, u)
			if err != nil && appt == nil {
				return err
			}
			if err != nil {
				a.logger.Warn().Err(err).Msg("appointment updated but the list could not be refreshed")
			}
			return a.renderAppointment(appt)
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "new date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&tm, "time", "", "new slot time (HH:MM)")
	cmd.Flags().StringVar(&reason, "reason", "", "new reason")
	cmd.Flags().StringVar(&status, "status", "", "new status: Scheduled, Completed, Cancelled or No Show")
	return cmd
}

func appointmentDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"cancel"},
		Short:   "Cancel an appointment by deleting it from the store",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd.Context())
			defer cancel()
			if err := a.ctrl.Remove(ctx, id); err != nil {
				return err
			}
			return a.render(map[string]interface{}{"id": id, "deleted": true}, func(tw io.Writer) {
				fmt.Fprintf(tw, "appointment %d deleted\n", id)
			})
		},
	}
}
