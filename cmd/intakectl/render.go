package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lifebalance/intake-api/internal/app"
	"github.com/lifebalance/intake-api/internal/config"
)

func newRenderCommand(loadConfig func() (*config.Config, error)) *cobra.Command {
	var in, out string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render an intake record to PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			rec, err := readRecord(in, cmd.InOrStdin())
			if err != nil {
				return err
			}
			renderer, err := app.NewRenderer(cfg, nil)
			if err != nil {
				return err
			}
			pdf, err := renderer.Render(rec)
			if err != nil {
				return err
			}
			if out == "" {
				out = renderer.Filename(rec)
			}
			if err := os.WriteFile(out, pdf, 0o600); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", out, len(pdf))
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "-", "record JSON file, - for stdin")
	cmd.Flags().StringVar(&out, "out", "", "output PDF path (default: the practice file name)")

	return cmd
}
