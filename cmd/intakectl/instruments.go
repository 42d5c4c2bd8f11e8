package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/lifebalance/intake-api/internal/measure"
)

func newInstrumentsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "instruments",
		Short: "Print the questionnaire definitions as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(measure.All())
		},
	}
}
