package cmd

import (
	"github.com/matheuskafuri/ainews/internal/config"
	"github.com/matheuskafuri/ainews/internal/tui"
	"github.com/spf13/cobra"
)

func runTUI(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	configPath := flagConfig
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}

	return tui.Run(tui.RunOpts{
		Cfg:        s.cfg,
		ConfigPath: configPath,
		Store:      s.filters,
		Source:     s.source,
		Logger:     s.logger,
		StartHome:  !flagFeed,
	})
}
