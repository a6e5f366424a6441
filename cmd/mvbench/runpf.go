package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/radekizk/mvbench/engine"
	"github.com/radekizk/mvbench/snapshot"
	"github.com/radekizk/mvbench/solverinput"
)

var runPFCmd = &cobra.Command{
	Use:   "run-pf",
	Short: "Run Newton-Raphson power flow against the scenario and print the ResultSet",
	RunE: func(cmd *cobra.Command, args []string) error {
		g, repo, cfg, err := loadScenario(scenarioPath)
		if err != nil {
			return err
		}

		snap, err := snapshot.Freeze(g, "cli-snapshot", now(), g.NetworkModelID())
		if err != nil {
			return fmt.Errorf("mvbench: freeze: %w", err)
		}
		profile := snapshot.Check(snap, repo)

		env, err := solverinput.Build(g, repo, cfg, solverinput.AnalysisLoadFlow, "cli-case", "cli-rev")
		if err != nil {
			return fmt.Errorf("mvbench: build solver input: %w", err)
		}

		e := engine.New(logger, engine.NewMetrics(prometheus.NewRegistry()))
		run, err := e.CreateRun("cli-case", env, &profile)
		if err != nil {
			return err
		}

		run, err = e.ExecuteRun(run.ID)
		if err != nil {
			return err
		}
		if run.Status != engine.StatusDone {
			return fmt.Errorf("mvbench: run %s ended %s: %s", run.ID, run.Status, run.Error)
		}

		rs, err := e.GetResultSet(run.ID)
		if err != nil {
			return err
		}
		printResultSet(rs)

		return nil
	},
}
