package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/satchel/pkg/store"
)

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <a.yaml> <b.yaml>",
		Short: "Report structural differences between two context dumps",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadContextDump(args[0])
			if err != nil {
				return err
			}
			b, err := loadContextDump(args[1])
			if err != nil {
				return err
			}

			report, err := a.Compare(b, store.CompareOptions{By: store.CompareByValue})
			if err != nil {
				return err
			}

			if flags.jsonMode {
				data, err := json.MarshalIndent(report, "", "  ")
				if err != nil {
					return fmt.Errorf("encode output: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
			} else if report.Equal {
				fmt.Fprintln(cmd.OutOrStdout(), "dumps are identical")
			} else {
				for _, d := range report.Differences {
					fmt.Fprintf(cmd.OutOrStdout(), "%-18s %s\n", d.Kind, d.Path)
				}
			}

			if !report.Equal {
				// Differences found: distinct exit code, like diff(1).
				cmd.SilenceErrors = true
				return fmt.Errorf("%d difference(s)", len(report.Differences))
			}
			return nil
		},
	}
}
