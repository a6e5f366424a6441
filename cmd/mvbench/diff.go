package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/radekizk/mvbench/snapshot"
)

var diffAgainstPath string

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Freeze two scenario files and print the DeltaOverlay between them",
	RunE: func(cmd *cobra.Command, args []string) error {
		baseGraph, _, _, err := loadScenario(scenarioPath)
		if err != nil {
			return err
		}
		otherGraph, _, _, err := loadScenario(diffAgainstPath)
		if err != nil {
			return err
		}

		before, err := snapshot.Freeze(baseGraph, "diff-before", now(), baseGraph.NetworkModelID())
		if err != nil {
			return fmt.Errorf("mvbench: freeze base scenario: %w", err)
		}
		after, err := snapshot.Freeze(otherGraph, "diff-after", now(), otherGraph.NetworkModelID())
		if err != nil {
			return fmt.Errorf("mvbench: freeze comparison scenario: %w", err)
		}

		d := snapshot.Delta(before, after)
		fmt.Printf("added_elements: %v\n", d.AddedElements)
		fmt.Printf("removed_elements: %v\n", d.RemovedElements)
		fmt.Println("modified_elements:")
		for _, m := range d.ModifiedElements {
			fmt.Printf("  %s.%s: %v -> %v\n", m.ElementID, m.FieldName, m.OldValue, m.NewValue)
		}

		return nil
	},
}

func init() {
	diffCmd.Flags().StringVar(&diffAgainstPath, "against", "", "path to the scenario YAML file to diff against (required)")
	_ = diffCmd.MarkFlagRequired("against")
	rootCmd.AddCommand(diffCmd)
}
