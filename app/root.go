// Package app implements the main application commands.
package app

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/articlegate/articlegate/internal/config"
	"github.com/articlegate/articlegate/internal/logger"
)

var (
	configPath string // Path to the configuration directory
	envFile    string // Path to an optional .env file

	cfg config.Config

	rootCmd = &cobra.Command{
		Use:   "articlegate",
		Short: "articlegate is a role based article management API",
		Long: `articlegate serves a JSON API for writing, editing and publishing articles.
Users authenticate with email and password, every route is gated by the
permissions of the user's role.`,
		Args:              cobra.OnlyValidArgs,
		SilenceUsage:      true,
		PersistentPreRunE: loadConfig,
	}
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath,
		"directory containing main.toml")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env",
		"dotenv file loaded before the configuration is read")
}

// loadConfig loads the dotenv file, reads the configuration and initializes logging.
func loadConfig(_ *cobra.Command, _ []string) error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err //nolint:wrapcheck
	}

	var err error
	if cfg, err = config.ReadConfig(configPath); err != nil {
		return err //nolint:wrapcheck
	}

	return logger.Init(cfg.Log) //nolint:wrapcheck
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute() //nolint:wrapcheck
}
