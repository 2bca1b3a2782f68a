package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"todoweb/internal/config"
	"todoweb/internal/database"
)

func newMigrateCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the todos table if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*envFile)
			if err != nil {
				return err
			}
			if cfg.DB.Driver == config.DriverMemory {
				return fmt.Errorf("nothing to migrate for driver %q", cfg.DB.Driver)
			}
			db, err := database.InitDB(cmd.Context(), cfg.DB)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := database.Migrate(cmd.Context(), db, database.DialectFor(cfg.DB.Driver)); err != nil {
				return err
			}
			log.Println("Migration finished")
			return nil
		},
	}
}
