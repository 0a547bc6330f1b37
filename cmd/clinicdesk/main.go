package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/clinicdesk/clinicdesk/internal/domain/identity"
	"github.com/clinicdesk/clinicdesk/internal/domain/scheduling"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

type globalFlags struct {
	envFile  string
	source   string
	storeURL string
	output   string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &globalFlags{}
	var a *app

	rootCmd := &cobra.Command{
		Use:           "clinicdesk",
		Short:         "Clinic front-desk client for patients and appointments",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flags.output != outputTable && flags.output != outputJSON {
				return fmt.Errorf("--output must be %q or %q", outputTable, outputJSON)
			}
			built, err := newApp(flags, stdout, stderr)
			if err != nil {
				return err
			}
			*a = *built
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}
	a = &app{}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.envFile, "env-file", ".env", "dotenv file to read configuration from")
	pf.StringVar(&flags.source, "source", "", "data source: remote, sample or demo (overrides DATA_SOURCE)")
	pf.StringVar(&flags.storeURL, "store-url", "", "store base URL (overrides STORE_URL)")
	pf.StringVarP(&flags.output, "output", "o", outputTable, "output format: table or json")

	rootCmd.AddCommand(slotsCmd(a))
	rootCmd.AddCommand(appointmentsCmd(a))
	rootCmd.AddCommand(patientsCmd(a))
	rootCmd.AddCommand(doctorsCmd(a))

	return rootCmd
}

// printError expands validation failures to one line per field.
func printError(w io.Writer, err error) {
	var sv scheduling.ValidationErrors
	var iv identity.ValidationErrors
	var fields map[string]string
	switch {
	case errors.As(err, &sv):
		fields = sv
	case errors.As(err, &iv):
		fields = iv
	default:
		fmt.Fprintln(w, "Error:", err)
		return
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Fprintln(w, "Error: validation failed")
	for _, k := range keys {
		fmt.Fprintf(w, "  %s: %s\n", k, fields[k])
	}
}
