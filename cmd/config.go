package main

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/tallyhq/tally/config"
)

// configCommands prints the computed configuration with secrets masked. It
// only loads the configuration file and never connects to postgres or redis.
func configCommands(_ *tallyInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "config outputs your instance's computed configuration",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configFile, _ := cmd.Flags().GetString("config")
			return config.InitConfig(configFile)
		},
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Fetch()
			if err != nil {
				log.Fatalf("Error getting config: %v\n", err)
			}

			data, err := json.MarshalIndent(masked(*cfg), "", "    ")
			if err != nil {
				log.Fatalf("Error printing config: %v\n", err)
			}

			fmt.Println(string(data))
		},
	}
	return cmd
}

func masked(cfg config.Configuration) config.Configuration {
	if cfg.Server.SecretKey != "" {
		cfg.Server.SecretKey = "********"
	}
	if cfg.Telemetry.PosthogKey != "" {
		cfg.Telemetry.PosthogKey = "********"
	}
	return cfg
}
