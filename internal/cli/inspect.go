package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/satchel/pkg/store"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <dump.yaml>",
		Short: "Show the containers and keys of a context dump",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := loadContextDump(args[0])
			if err != nil {
				return err
			}
			logger.Debug("dump loaded", zap.String("path", args[0]))

			if flags.jsonMode {
				data, err := json.MarshalIndent(ctx.Export(), "", "  ")
				if err != nil {
					return fmt.Errorf("encode output: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			for _, name := range store.ContainerNames {
				c, err := ctx.Container(name)
				if err != nil {
					return err
				}
				keys := c.Keys()
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %d item(s)\n", name, len(keys))
				for _, k := range keys {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", k)
				}
			}
			return nil
		},
	}
}
