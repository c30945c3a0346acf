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

	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/cobra"

	"github.com/tallyhq/tally"
	"github.com/tallyhq/tally/database"
)

// migrationSchema holds the migration bookkeeping table next to the tally
// tables.
const migrationSchema = "tally"

func migrationSource() migrate.EmbedFileSystemMigrationSource {
	return migrate.EmbedFileSystemMigrationSource{
		FileSystem: tally.SQLFiles,
		Root:       "sql",
	}
}

// migrateCommands creates the root command for migration-related operations.
func migrateCommands(t *tallyInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "apply or roll back the tally schema",
	}

	// Add subcommands for migrating up and down.
	cmd.AddCommand(migrateUpCommands(t))
	cmd.AddCommand(migrateDownCommands(t))

	return cmd
}

// migrateUpCommands creates the command for applying migrations.
func migrateUpCommands(t *tallyInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use: "up",
		Run: func(cmd *cobra.Command, args []string) {
			migrations := migrationSource()

			db, err := database.ConnectDB(t.cnf.DataSource.Dns)
			if err != nil {
				log.Printf("Error connecting to database: %v", err)
				return
			}

			migrate.SetSchema(migrationSchema)

			n, err := migrate.Exec(db, "postgres", migrations, migrate.Up)
			if err != nil {
				log.Printf("Error migrating up: %v", err)
			} else {
				fmt.Printf("Applied %d migrations!\n", n)
			}
		},
	}

	return cmd
}

// migrateDownCommands creates the command for rolling back migrations.
func migrateDownCommands(t *tallyInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use: "down",
		Run: func(cmd *cobra.Command, args []string) {
			migrations := migrationSource()

			db, err := database.ConnectDB(t.cnf.DataSource.Dns)
			if err != nil {
				log.Printf("Error connecting to database: %v", err)
				return
			}

			migrate.SetSchema(migrationSchema)
			n, err := migrate.Exec(db, "postgres", migrations, migrate.Down)
			if err != nil {
				log.Printf("Error migrating down: %v", err)
			} else {
				fmt.Printf("Rolled back %d migrations!\n", n)
			}
		},
	}

	return cmd
}
