// Package main provides the docflow binary: a driver for the bilateral
// document workflow that admits documents under a limit policy and replays
// the manual exchange scenario.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	platformconfig "docflow/internal/platform/config"
	"docflow/internal/platform/logger"
	"docflow/internal/workflow/config"
	"docflow/internal/workflow/policy"
)

const appName = "docflow"

var (
	Version   = "0.1.0"
	BuildTime = "dev"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globals holds the persistent flags shared by every subcommand.
type globals struct {
	logLevel   string
	logFormat  string
	policyFile string
	logger     *slog.Logger
}

func rootCmd() *cobra.Command {
	g := &globals{}
	defaults, err := platformconfig.FromEnv()
	if err != nil {
		defaults = platformconfig.CLI{LogLevel: "info", LogFormat: "text"}
	}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Bilateral document workflow driver",
		Long: `docflow drives documents between a drafting party and a counterparty.

Documents are admitted to a registry that enforces a time-of-day window,
per-party and per-pair open-document ceilings and a per-party creation
rate. The policy comes from defaults, an optional YAML file and DOCFLOW_*
environment variables, in that order.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			g.logger = logger.New(g.logLevel, g.logFormat, cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", defaults.LogLevel, "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&g.logFormat, "log-format", defaults.LogFormat, "Log format (text, json)")
	cmd.PersistentFlags().StringVarP(&g.policyFile, "policy", "p", defaults.PolicyFile, "Policy file path (YAML)")

	cmd.AddCommand(
		admitCmd(g),
		exchangeCmd(g),
		policyCmd(g),
		versionCmd(),
	)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	}
}

// loadPolicy resolves the effective configuration and the policy it builds.
func (g *globals) loadPolicy() (config.Config, policy.LimitPolicy, error) {
	cfg, err := config.Load(g.policyFile)
	if err != nil {
		return config.Config{}, policy.LimitPolicy{}, fmt.Errorf("load policy: %w", err)
	}
	p, err := cfg.Policy()
	if err != nil {
		return config.Config{}, policy.LimitPolicy{}, fmt.Errorf("invalid policy: %w", err)
	}
	return cfg, p, nil
}
