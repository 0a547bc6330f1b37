package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/clinicdesk/clinicdesk/internal/domain/identity"
)

func patientsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patients",
		Short: "Manage patient records",
	}
	cmd.AddCommand(patientListCmd(a))
	cmd.AddCommand(patientGetCmd(a))
	cmd.AddCommand(patientSearchCmd(a))
	cmd.AddCommand(patientCreateCmd(a))
	cmd.AddCommand(patientUpdateCmd(a))
	cmd.AddCommand(patientDeleteCmd(a))
	return cmd
}

func doctorsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctors",
		Short: "Show the doctor roster",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List doctors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd.Context())
			defer cancel()
			doctors, err := a.patients.ListDoctors(ctx)
			if err != nil {
				a.notifier.Notify("list doctors", err)
				return err
			}
			return a.render(doctors, func(tw io.Writer) {
				row(tw, "ID", "NAME")
				for _, d := range doctors {
					row(tw, d.ID, d.Name)
				}
			})
		},
	})
	return cmd
}

func (a *app) renderPatients(items []identity.Patient) error {
	return a.render(items, func(tw io.Writer) {
		row(tw, "ID", "NAME", "AGE", "GENDER", "BLOOD", "MOBILE", "ANC", "EDD")
		for _, p := range items {
			edd := "-"
			if p.ExpectedDeliveryDate != nil {
				edd = *p.ExpectedDeliveryDate
			}
			row(tw, p.ID, p.Name, p.Age, p.Gender, p.BloodGroup, p.Mobile, p.IsANC, edd)
		}
	})
}

func (a *app) renderPatient(p *identity.Patient) error {
	return a.render(p, func(tw io.Writer) {
		edd := "-"
		if p.ExpectedDeliveryDate != nil {
			edd = *p.ExpectedDeliveryDate
		}
		row(tw, "ID", p.ID)
		row(tw, "NAME", p.Name)
		row(tw, "AGE", p.Age)
		row(tw, "GENDER", p.Gender)
		row(tw, "DATE OF BIRTH", p.DateOfBirth)
		row(tw, "BLOOD GROUP", p.BloodGroup)
		row(tw, "MOBILE", p.Mobile)
		row(tw, "ADDRESS", p.Address)
		row(tw, "ALLERGIES", orDash(p.Allergies))
		row(tw, "MEDICAL HISTORY", orDash(p.MedicalHistory))
		row(tw, "ANC", p.IsANC)
		row(tw, "EDD", edd)
	})
}

func patientListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List patients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd.Context())
			defer cancel()
			items, err := a.patients.ListPatients(ctx)
			if err != nil {
				a.notifier.Notify("list patients", err)
				return err
			}
			return a.renderPatients(items)
		},
	}
}

func patientSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search QUERY",
		Short: "Search patients by name or mobile number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd.Context())
			defer cancel()
			items, err := a.patients.SearchPatients(ctx, args[0])
			if err != nil {
				a.notifier.Notify("search patients", err)
				return err
			}
			return a.renderPatients(items)
		},
	}
}

func patientGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show one patient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd.Context())
			defer cancel()
			p, err := a.patients.GetPatient(ctx, id)
			if err != nil {
				return err
			}
			return a.renderPatient(p)
		},
	}
}

// patientFlags binds the form fields to flags.
type patientFlags struct {
	form identity.PatientForm
	edd  string
}

func (pf *patientFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&pf.form.Name, "name", "", "full name, 2 to 100 characters")
	fs.StringVar(&pf.form.Age, "age", "", "age in years")
	fs.StringVar(&pf.form.Gender, "gender", "", "Male, Female or Other")
	fs.StringVar(&pf.form.DateOfBirth, "dob", "", "date of birth (YYYY-MM-DD)")
	fs.StringVar(&pf.form.BloodGroup, "blood-group", "", "A+, A-, B+, B-, AB+, AB-, O+ or O-")
	fs.StringVar(&pf.form.Mobile, "mobile", "", "mobile number, 10 to 15 digits")
	fs.StringVar(&pf.form.Address, "address", "", "address, 5 to 255 characters")
	fs.StringVar(&pf.form.Allergies, "allergies", "", "known allergies")
	fs.StringVar(&pf.form.MedicalHistory, "history", "", "medical history")
	fs.StringVar(&pf.form.IsANC, "anc", identity.ANCNo, "under antenatal care: Yes or No")
	fs.StringVar(&pf.edd, "edd", "", "expected delivery date (YYYY-MM-DD), only with --anc Yes")
}

// apply copies the changed flags over base.
func (pf *patientFlags) apply(fs *pflag.FlagSet, base identity.PatientForm) identity.PatientForm {
	fields := map[string]func(){
		"name":        func() { base.Name = pf.form.Name },
		"age":         func() { base.Age = pf.form.Age },
		"gender":      func() { base.Gender = pf.form.Gender },
		"dob":         func() { base.DateOfBirth = pf.form.DateOfBirth },
		"blood-group": func() { base.BloodGroup = pf.form.BloodGroup },
		"mobile":      func() { base.Mobile = pf.form.Mobile },
		"address":     func() { base.Address = pf.form.Address },
		"allergies":   func() { base.Allergies = pf.form.Allergies },
		"history":     func() { base.MedicalHistory = pf.form.MedicalHistory },
		"anc":         func() { base.IsANC = pf.form.IsANC },
		"edd":         func() { edd := pf.edd; base.ExpectedDeliveryDate = &edd },
	}
	for name, set := range fields {
		if fs.Changed(name) {
			set()
		}
	}
	return base
}

func patientCreateCmd(a *app) *cobra.Command {
	pf := &patientFlags{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a patient",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := pf.apply(cmd.Flags(), identity.PatientForm{IsANC: pf.form.IsANC})
			ctx, cancel := commandContext(cmd.Context())
			defer cancel()
			p, err := a.patients.CreatePatient(ctx, f)
			if err != nil {
				notifyStoreErr(a, "create patient", err)
				return err
			}
			return a.renderPatient(p)
		},
	}
	pf.register(cmd.Flags())
	return cmd
}

func patientUpdateCmd(a *app) *cobra.Command {
	pf := &patientFlags{}
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Edit a patient record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd.Context())
			defer cancel()
			current, err := a.patients.GetPatient(ctx, id)
			if err != nil {
				return err
			}
			p, err := a.patients.UpdatePatient(ctx, id, pf.apply(cmd.Flags(), current.Form()))
			if err != nil {
				notifyStoreErr(a, "update patient", err)
				return err
			}
			return a.renderPatient(p)
		},
	}
	pf.register(cmd.Flags())
	return cmd
}

func patientDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a patient record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd.Context())
			defer cancel()
			if err := a.patients.DeletePatient(ctx, id); err != nil {
				notifyStoreErr(a, "delete patient", err)
				return err
			}
			return a.render(map[string]interface{}{"id": id, "deleted": true}, func(tw io.Writer) {
				fmt.Fprintf(tw, "patient %d deleted\n", id)
			})
		},
	}
}

// notifyStoreErr notifies store failures. Validation errors are printed by
// main instead.
func notifyStoreErr(a *app, op string, err error) {
	var verrs identity.ValidationErrors
	if errors.As(err, &verrs) {
		return
	}
	a.notifier.Notify(op, err)
}
