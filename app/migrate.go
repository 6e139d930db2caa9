package app

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/articlegate/articlegate/internal/daemon"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:     "migrate",
	Aliases: []string{"seed"},
	Short:   "Migrate the database schema and seed permissions and roles",
	Long: `Migrate creates or updates the tables and writes the permission catalog and
the stock roles. Stock roles that were deleted are created again, existing roles
are never modified. Demo users are created when Seed.DemoUsers is enabled.

start only seeds the stock roles into an empty database.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		gdb, err := daemon.Prepare(cmd.Context(), &cfg, daemon.Seed)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if sqlDB, err := gdb.DB(); err == nil {
			defer sqlDB.Close()
		}

		log.Info().Str("engine", cfg.DB.GormEngine).Msg("database migrated and seeded")

		return nil
	},
}
