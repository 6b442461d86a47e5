package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/satchel/pkg/store"
)

func newMergeCmd() *cobra.Command {
	var (
		strategy string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "merge <a.yaml> <b.yaml>",
		Short: "Merge two context dumps under a conflict-resolution strategy",
		Long: "Merge dump B into dump A. Strategies:\n" +
			"  newer   per-key newest modification wins (dump load order breaks ties)\n" +
			"  source  A wins every conflicting key\n" +
			"  target  B wins every conflicting key",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strategy == "" {
				cfg, err := loadConfig(resolveConfigDir())
				if err != nil {
					return err
				}
				strategy = cfg.GetString(cfgKeyStrategy)
			}

			a, err := loadContextDump(args[0])
			if err != nil {
				return err
			}
			b, err := loadContextDump(args[1])
			if err != nil {
				return err
			}

			result, err := runMerge(a, b, strategy)
			if err != nil {
				return err
			}
			logger.Info("merge complete",
				zap.String("strategy", strategy),
				zap.Int("applied", len(result.Details.Applied)),
				zap.Int("conflicts", result.Details.Conflicts))

			if output == "" {
				output = args[0]
			}
			if err := writeContextDump(a, output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "merged %d key(s) (%d conflict(s)) into %s\n",
				len(result.Details.Applied), result.Details.Conflicts, output)
			return nil
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", "", "conflict-resolution strategy: newer, source, or target (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: overwrite the first dump)")
	return cmd
}

// runMerge dispatches a CLI strategy name to the corresponding engine call.
func runMerge(a, b *store.Context, strategy string) (*store.SyncResult, error) {
	switch strategy {
	case "newer":
		return a.MergeNewerWins(b, store.SyncOptions{})
	case "source":
		return a.MergeWithPriority(b, store.PriorityOptions{Priority: store.PrioritySource}, store.SyncOptions{})
	case "target":
		return a.MergeWithTargetPriority(b, store.SyncOptions{})
	}
	return nil, fmt.Errorf("unknown strategy %q (want newer, source, or target)", strategy)
}
