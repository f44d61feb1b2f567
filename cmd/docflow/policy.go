package main

import (
	"github.com/spf13/cobra"
)

func policyCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "policy",
		Short: "Print the effective limit policy as YAML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := g.loadPolicy()
			if err != nil {
				return err
			}
			out, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
