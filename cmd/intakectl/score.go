package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lifebalance/intake-api/internal/service/submission"
)

func newScoreCommand() *cobra.Command {
	var (
		in     string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Print the screening scores of an intake record",
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := readRecord(in, cmd.InOrStdin())
			if err != nil {
				return err
			}
			scores := rec.Scores()
			w := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(scores)
			}

			h := submission.NewHeadlines(scores)
			fmt.Fprintf(w, "PHQ-9:  %s\n", h.PHQ9)
			fmt.Fprintf(w, "GAD-7:  %s\n", h.GAD7)
			fmt.Fprintf(w, "MDQ:    %s\n", h.MDQ)
			fmt.Fprintf(w, "PCL-C:  %s\n", h.PCLC)
			fmt.Fprintf(w, "ASRS:   %s\n", h.ASRS)
			if rec.SuicidalThoughts {
				fmt.Fprintln(w, "SAFETY: patient reports thoughts of suicide or self-harm")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "-", "record JSON file, - for stdin")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full score summary as JSON")

	return cmd
}
