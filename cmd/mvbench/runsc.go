package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/radekizk/mvbench/engine"
	"github.com/radekizk/mvbench/resultset"
	"github.com/radekizk/mvbench/snapshot"
	"github.com/radekizk/mvbench/solverinput"
)

var runSCCmd = &cobra.Command{
	Use:   "run-sc",
	Short: "Run an IEC 60909 short-circuit study against the scenario and print the ResultSet",
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

		env, err := solverinput.Build(g, repo, cfg, solverinput.AnalysisShortCircuit, "cli-case", "cli-rev")
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

func printResultSet(rs *resultset.ResultSet) {
	fmt.Printf("run=%s analysis=%s signature=%s\n", rs.RunID, rs.AnalysisType, rs.DeterministicSignature)
	fmt.Println("global results:")
	for _, m := range rs.GlobalResults {
		fmt.Printf("  %s = %s %s\n", m.Code, fmt.Sprintf(m.FormatHint, m.Value), m.Unit)
	}
	fmt.Println("element results:")
	for _, el := range rs.ElementResults {
		fmt.Printf("  %s:\n", el.ElementRef)
		for _, m := range el.Metrics {
			fmt.Printf("    %s = %s %s\n", m.Code, fmt.Sprintf(m.FormatHint, m.Value), m.Unit)
		}
		for _, b := range el.Badges {
			fmt.Printf("    [%s] %s: %s\n", b.Severity, b.Code, b.MessagePL)
		}
	}
}
