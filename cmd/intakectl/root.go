package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lifebalance/intake-api/internal/config"
	"github.com/lifebalance/intake-api/internal/model"
)

func newRootCommand() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:           "intakectl",
		Short:         "Tools for working with patient intake records",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default: search ., ./config, /app/config)")

	loadConfig := func() (*config.Config, error) {
		return config.Load(viper.New(), cfgFile)
	}

	cmd.AddCommand(newRenderCommand(loadConfig))
	cmd.AddCommand(newScoreCommand())
	cmd.AddCommand(newInstrumentsCommand())

	return cmd
}

// readRecord decodes a record file over the defaults, so a partial file is a
// valid record. "-" reads stdin.
func readRecord(path string, stdin io.Reader) (model.IntakeRecord, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return model.IntakeRecord{}, fmt.Errorf("failed to read record: %w", err)
	}

	rec := model.NewIntakeRecord()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&rec); err != nil {
		return model.IntakeRecord{}, fmt.Errorf("failed to decode record: %w", err)
	}
	return rec, nil
}
