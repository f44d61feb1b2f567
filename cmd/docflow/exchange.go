package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"docflow/internal/workflow/exchange"
)

// defaultCLISignAt is the round in which the drafter countersigns when
// --sign-at is not given. It replays the long-running manual scenario,
// unlike exchange.DefaultSignAt which completes in the first round.
const defaultCLISignAt = 10000

func exchangeCmd(g *globals) *cobra.Command {
	var (
		signAt    int
		maxRounds int
		parties   partyFlags
	)
	cmd := &cobra.Command{
		Use:   "exchange",
		Short: "Replay the manual sign, transfer and change loop",
		Long: `Runs the registry-free exchange: the drafter signs, hands the document to
the counterparty, which takes over drafting and signs, then hands it back.
The original drafter countersigns in round --sign-at.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			drafter, counterparty, err := parties.build()
			if err != nil {
				return err
			}

			res, err := exchange.Run(cmd.Context(), drafter, counterparty,
				exchange.WithSignAt(signAt),
				exchange.WithMaxRounds(maxRounds),
				exchange.WithLogger(g.logger),
			)
			if res.Document != nil {
				snap := res.Document.Snapshot()
				fmt.Fprintf(cmd.OutOrStdout(), "document=%s rounds=%d state=%s drafter=%s counterparty=%s\n",
					snap.Name, res.Rounds, snap.State, snap.Drafter, snap.Counterparty)
			}
			return err
		},
	}
	cmd.Flags().IntVar(&signAt, "sign-at", defaultCLISignAt, "Round in which the original drafter countersigns")
	cmd.Flags().IntVar(&maxRounds, "max-rounds", exchange.DefaultMaxRounds, "Give up after this many rounds")
	parties.register(cmd)
	return cmd
}
