package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/clinicdesk/clinicdesk/internal/domain/scheduling"
)

type slotView struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

func slotsCmd(a *app) *cobra.Command {
	var doctorID int
	var date string

	cmd := &cobra.Command{
		Use:   "slots",
		Short: "List the bookable time slots of a working day",
		Long: "List the bookable time slots from 09:00 to 18:00 in 5-minute steps.\n" +
			"With --doctor and --date, slots already booked for that doctor are marked.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			taken := map[string]bool{}
			if doctorID > 0 && date != "" {
				ctx, cancel := commandContext(cmd.Context())
				defer cancel()
				items, err := a.ctrl.Search(ctx, scheduling.Criteria{Date: date})
				if err != nil {
					return err
				}
				for _, appt := range items {
					if appt.DoctorID == doctorID {
						taken[appt.AppointmentTime] = true
					}
				}
			}

			slots := scheduling.GenerateSlots()
			views := make([]slotView, len(slots))
			for i, s := range slots {
				views[i] = slotView{Time: s, Available: !taken[s]}
			}
			return a.render(views, func(w io.Writer) {
				row(w, "TIME", "AVAILABLE")
				for _, v := range views {
					avail := "yes"
					if !v.Available {
						avail = "booked"
					}
					row(w, v.Time, avail)
				}
			})
		},
	}
	cmd.Flags().IntVar(&doctorID, "doctor", 0, "doctor id to check bookings for")
	cmd.Flags().StringVar(&date, "date", "", "date to check bookings on (YYYY-MM-DD)")
	return cmd
}
