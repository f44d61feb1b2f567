package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"docflow/internal/workflow/models"
	id "docflow/pkg/domain"
)

// partyFlags describes the two sides a command drafts between.
type partyFlags struct {
	drafterRole      string
	counterpartyRole string
	drafterID        string
	counterpartyID   string
}

func (f *partyFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.drafterRole, "drafter-role", string(models.RolePrimary), "Role of the drafting party (primary, secondary)")
	cmd.Flags().StringVar(&f.counterpartyRole, "counterparty-role", "", "Role of the counterparty (default: the role opposite the drafter)")
	cmd.Flags().StringVar(&f.drafterID, "drafter-id", "", "UUID for the drafting party (default: random)")
	cmd.Flags().StringVar(&f.counterpartyID, "counterparty-id", "", "UUID for the counterparty (default: random)")
}

// build returns the drafter and counterparty. An empty counterparty role
// means the opposite of the drafter's.
func (f *partyFlags) build() (*models.Party, *models.Party, error) {
	drafterRole, err := models.ParseRole(f.drafterRole)
	if err != nil {
		return nil, nil, fmt.Errorf("--drafter-role: %w", err)
	}
	counterpartyRole := drafterRole.Other()
	if f.counterpartyRole != "" {
		if counterpartyRole, err = models.ParseRole(f.counterpartyRole); err != nil {
			return nil, nil, fmt.Errorf("--counterparty-role: %w", err)
		}
	}

	drafter, err := newParty(f.drafterID, drafterRole, "drafter")
	if err != nil {
		return nil, nil, fmt.Errorf("--drafter-id: %w", err)
	}
	counterparty, err := newParty(f.counterpartyID, counterpartyRole, "counterparty")
	if err != nil {
		return nil, nil, fmt.Errorf("--counterparty-id: %w", err)
	}
	return drafter, counterparty, nil
}

func newParty(rawID string, role models.Role, name string) (*models.Party, error) {
	if rawID == "" {
		return models.NewParty(role, name)
	}
	partyID, err := id.ParsePartyID(rawID)
	if err != nil {
		return nil, err
	}
	return models.NewPartyWithID(partyID, role, name)
}
