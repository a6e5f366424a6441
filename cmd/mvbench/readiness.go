package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/radekizk/mvbench/snapshot"
)

var readinessCmd = &cobra.Command{
	Use:   "readiness",
	Short: "Freeze the scenario and print its readiness profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		g, repo, _, err := loadScenario(scenarioPath)
		if err != nil {
			return err
		}

		snap, err := snapshot.Freeze(g, "cli-snapshot", now(), g.NetworkModelID())
		if err != nil {
			return fmt.Errorf("mvbench: freeze: %w", err)
		}

		profile := snapshot.Check(snap, repo)
		fmt.Printf("snapshot %s fingerprint=%s\n", snap.SnapshotID, snap.Fingerprint)
		fmt.Printf("short_circuit_ready=%v load_flow_ready=%v protection_ready=%v\n",
			profile.ShortCircuitReady, profile.LoadFlowReady, profile.ProtectionReady)
		for _, iss := range profile.Issues {
			fmt.Printf("  [%s/%s] %s: %s (element=%s)\n", iss.Priority, iss.Area, iss.Code, iss.MessagePL, iss.ElementID)
		}

		return nil
	},
}
