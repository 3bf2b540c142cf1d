package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/insan3d/proctl/internal/logger"
)

type statusOptions struct {
	JSON bool
}

func newStatusCmd(root *rootFlags) *cobra.Command {
	opts := statusOptions{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show current Ubuntu Pro attachment and service state",
		RunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if root.verbose {
				level = "debug"
			}

			log, err := logger.New(logger.Options{Level: level, HumanReadable: true})
			if err != nil {
				return err
			}

			client, err := newProClient(log)
			if err != nil {
				return err
			}

			status, err := client.Status(context.Background())
			if err != nil {
				return err
			}

			if opts.JSON {
				encoded, err := json.MarshalIndent(status, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
				return nil
			}

			fmt.Fprint(cmd.OutOrStdout(), renderStatus(status))
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Emit machine-readable JSON")

	return cmd
}
