/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tallyhq/tally"
	"github.com/tallyhq/tally/config"
	"github.com/tallyhq/tally/database"
	"github.com/tallyhq/tally/internal/cache"
	"github.com/tallyhq/tally/internal/notification"
	redis_db "github.com/tallyhq/tally/internal/redis-db"
)

// Tally is the CLI application.
type Tally struct {
	cmd *cobra.Command
}

// tallyInstance holds the service and configuration shared by every command.
type tallyInstance struct {
	tally *tally.Tally
	cnf   *config.Configuration
}

func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun loads the configuration file and builds the service before any
// command runs.
func preRun(app *tallyInstance, configFile *string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig(*configFile)
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		newTally, err := setupTally(cnf)
		if err != nil {
			notification.NotifyError(err)
			log.Fatal(err)
		}

		app.tally = newTally
		app.cnf = cnf
		return nil
	}
}

// setupTally connects to postgres and redis and builds the service.
func setupTally(cfg *config.Configuration) (*tally.Tally, error) {
	redisClient, err := redis_db.NewRedisClient([]string{cfg.Redis.Dns}, cfg.Redis.SkipTLSVerify)
	if err != nil {
		return nil, fmt.Errorf("error connecting to redis: %v", err)
	}

	db, err := database.NewDataSource(cfg, cache.NewRedisCache(redisClient.Client(), time.Minute))
	if err != nil {
		return nil, fmt.Errorf("error getting datasource: %v", err)
	}

	newTally, err := tally.NewTally(db)
	if err != nil {
		return nil, fmt.Errorf("error creating tally: %v", err)
	}
	return newTally, nil
}

// NewCLI builds the root command with the server, workers, migrate and config
// subcommands.
func NewCLI() *Tally {
	var configFile string
	t := &tallyInstance{}

	var rootCmd = &cobra.Command{
		Use:   "tally",
		Short: "Peer to peer personal finance ledger",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./tally.json", "Configuration file for tally")
	rootCmd.PersistentPreRunE = preRun(t, &configFile)

	rootCmd.AddCommand(serverCommands(t))
	rootCmd.AddCommand(workerCommands(t))
	rootCmd.AddCommand(migrateCommands(t))
	rootCmd.AddCommand(configCommands(t))

	return &Tally{cmd: rootCmd}
}

func (w Tally) executeCLI() {
	if err := w.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
