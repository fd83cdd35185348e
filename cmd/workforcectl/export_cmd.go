package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/warp/workforce-engine/payroll"
	"github.com/warp/workforce-engine/workforce"
)

func newPayrollCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payroll",
		Short: "Payroll exports",
	}
	cmd.AddCommand(newPayrollExportCmd(app))
	return cmd
}

func newPayrollExportCmd(app *App) *cobra.Command {
	var start, end, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the payroll summary as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := periodFlags(start, end)
			if err != nil {
				return err
			}
			rows, err := app.Payroll.Summary(cmd.Context(), p)
			if err != nil {
				return err
			}
			return writeOutput(cmd, out, func(w io.Writer) error {
				return payroll.WritePayrollCSV(w, rows)
			})
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Period start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Period end, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringVar(&out, "out", "", "Output file (default stdout)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func newBillingCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "billing",
		Short: "Client billing exports",
	}
	cmd.AddCommand(newBillingExportCmd(app))
	return cmd
}

func newBillingExportCmd(app *App) *cobra.Command {
	var project, start, end, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a project's billing statement as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := periodFlags(start, end)
			if err != nil {
				return err
			}
			st, err := app.Payroll.ProjectBilling(cmd.Context(), workforce.ProjectID(project), p)
			if err != nil {
				return err
			}
			return writeOutput(cmd, out, func(w io.Writer) error {
				return payroll.WriteBillingCSV(w, st)
			})
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project ID")
	cmd.Flags().StringVar(&start, "start", "", "Period start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Period end, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringVar(&out, "out", "", "Output file (default stdout)")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

// writeOutput sends render to path, or to the command's stdout when path is
// empty.
func writeOutput(cmd *cobra.Command, path string, render func(io.Writer) error) error {
	if path == "" {
		return render(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", path)
	return nil
}
