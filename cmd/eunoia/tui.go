package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/eunoia/pkg/config"
	"github.com/unowned-ai/eunoia/pkg/tui"
	"github.com/unowned-ai/eunoia/pkg/utils"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse entries in an interactive terminal UI",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		// The alt screen owns the terminal; log lines would tear it.
		if l, ok := a.Log.(interface{ SetOutput(io.Writer) }); ok {
			l.SetOutput(io.Discard)
		}

		label := a.Config.Storage
		if a.Config.Storage != config.StorageMemory {
			label = a.Config.DBPath
			if label == "" {
				label = utils.DefaultDBPath()
			}
		}
		return tui.ShowTUI(cmdContext(cmd), a.Registry, label)
	},
}
