package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/warp/workforce-engine/generic"
	"github.com/warp/workforce-engine/workforce"
)

func newReportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Hour reports",
	}
	cmd.AddCommand(
		newReportWeeklyCmd(app),
		newReportTeamCmd(app),
	)
	return cmd
}

func newReportWeeklyCmd(app *App) *cobra.Command {
	var user, weekStart string

	cmd := &cobra.Command{
		Use:   "weekly",
		Short: "One user's week by project and day",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := generic.ParseDate(weekStart)
			if err != nil {
				return &generic.InputError{Field: "week-start", Message: err.Error()}
			}
			rep, err := app.Reports.WeeklyReport(cmd.Context(), workforce.UserID(user), ws)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "User:\t%s\n", rep.UserID)
			fmt.Fprintf(w, "Week:\t%s\n", rep.Period)
			fmt.Fprintf(w, "Total:\t%s\n", rep.TotalHours.StringFixed(2))
			fmt.Fprintf(w, "Billable:\t%s\n", rep.BillableHours.StringFixed(2))
			fmt.Fprintf(w, "Avg/day:\t%s\n", rep.AverageHoursPerDay.StringFixed(2))
			fmt.Fprintln(w)
			fmt.Fprintln(w, "PROJECT\tTOTAL\tBILLABLE")
			for _, l := range rep.Projects {
				fmt.Fprintf(w, "%s\t%s\t%s\n", l.ProjectName, l.TotalHours.StringFixed(2), l.BillableHours.StringFixed(2))
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, "DATE\tHOURS")
			for _, d := range rep.Daily {
				fmt.Fprintf(w, "%s\t%s\n", d.Date, d.TotalHours.StringFixed(2))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Employee ID")
	cmd.Flags().StringVar(&weekStart, "week-start", "", "First day of the week (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("week-start")

	return cmd
}

func newReportTeamCmd(app *App) *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "team",
		Short: "Team totals and per-member hours",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := periodFlags(start, end)
			if err != nil {
				return err
			}
			team, err := app.Reports.TeamSummary(cmd.Context(), p)
			if err != nil {
				return err
			}
			members, err := app.Reports.MembersSummary(cmd.Context(), p)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Period:\t%s\n", team.Period)
			fmt.Fprintf(w, "Employees:\t%d (%d active)\n", team.TotalEmployees, team.ActiveEmployees)
			fmt.Fprintf(w, "Total:\t%s\n", team.TotalHours.StringFixed(2))
			fmt.Fprintf(w, "Billable:\t%s (%s%%)\n", team.BillableHours.StringFixed(2), team.BillablePercent.StringFixed(2))
			fmt.Fprintln(w)
			fmt.Fprintln(w, "EMPLOYEE\tTOTAL\tBILLABLE\tBILLABLE %")
			for _, m := range members {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.Employee.Name,
					m.TotalHours.StringFixed(2), m.BillableHours.StringFixed(2), m.BillablePercent.StringFixed(2))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Period start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Period end, inclusive (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}
