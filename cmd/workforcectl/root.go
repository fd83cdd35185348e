package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/warp/workforce-engine/api"
	"github.com/warp/workforce-engine/config"
	"github.com/warp/workforce-engine/generic"
	"github.com/warp/workforce-engine/payroll"
	"github.com/warp/workforce-engine/report"
	"github.com/warp/workforce-engine/store/sqlite"
)

// App holds the services shared by every command. Store is opened lazily
// so --db can take effect; tests bind one up front.
type App struct {
	Config *config.Config
	Logger *slog.Logger

	Store   api.Backend
	Payroll *payroll.Service
	Reports *report.Reporter

	closer func() error
}

func (a *App) bind(store api.Backend, cfg payroll.Config) {
	a.Store = store
	a.Payroll = payroll.NewService(store, cfg)
	a.Reports = report.NewReporter(store)
}

func (a *App) open(dbPath string) error {
	if a.Store != nil {
		return nil
	}
	a.Config.Apply(config.WithDatabasePath(dbPath))
	st, err := sqlite.New(a.Config.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	a.closer = st.Close
	a.bind(st, payroll.Config{
		HourlyRate:         a.Config.Payroll.Rate(),
		OvertimeMultiplier: a.Config.Payroll.Multiplier(),
	})
	return nil
}

// Close releases the store if open opened it.
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer()
}

// NewRootCmd creates the root cobra command with all subcommands.
func NewRootCmd(app *App) *cobra.Command {
	var dbPath string

	root := &cobra.Command{
		Use:           "workforcectl",
		Short:         "Payroll exports and hour reports",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.open(dbPath)
		},
	}
	root.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (overrides config)")

	root.AddCommand(
		newPayrollCmd(app),
		newBillingCmd(app),
		newReportCmd(app),
		newSeedCmd(app),
	)

	return root
}

func newSeedCmd(app *App) *cobra.Command {
	var scenario string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a demo scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := api.LoadScenario(cmd.Context(), app.Store, scenario, app.Logger)
			if err != nil {
				return err
			}
			if !loaded {
				fmt.Fprintf(cmd.OutOrStdout(), "Scenario %s already loaded\n", scenario)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded scenario %s\n", scenario)
			return nil
		},
	}

	cmd.Flags().StringVar(&scenario, "scenario", "team-month", "Scenario ID")
	return cmd
}

// periodFlags parses a --start/--end pair.
func periodFlags(start, end string) (generic.Period, error) {
	s, err := generic.ParseDate(start)
	if err != nil {
		return generic.Period{}, &generic.InputError{Field: "start", Message: err.Error()}
	}
	e, err := generic.ParseDate(end)
	if err != nil {
		return generic.Period{}, &generic.InputError{Field: "end", Message: err.Error()}
	}
	return generic.NewPeriod(s, e)
}
