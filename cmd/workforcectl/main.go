/*
main.go - workforcectl entry point

PURPOSE:
  Command-line access to payroll and billing exports and the hour reports,
  reading the same SQLite database as the HTTP server.

ENVIRONMENT:
  CONFIG_PATH and DATABASE_PATH as for cmd/server. --db overrides both.

SEE ALSO:
  - root.go: command tree
*/
package main

import (
	"fmt"
	"os"

	"github.com/warp/workforce-engine/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	app := &App{Config: cfg, Logger: config.NewLogger(cfg.Log)}
	defer app.Close()

	return NewRootCmd(app).Execute()
}
