// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/config"
)

var (
	cfg        config.Config // configuration read by the PreRun of a command
	configPath string        // directory holding main.toml

	rootCmd = &cobra.Command{
		Use:   "localblog-admin",
		Short: "LocalBlog-Admin generates local SEO blog posts for client businesses",
		Long: `LocalBlog-Admin is a multi-tenant dashboard for agencies managing local businesses.
It generates SEO blog posts per client with a text generation provider, stores them
for review and forwards them to a publishing webhook.`,
		Args: cobra.OnlyValidArgs,
	}
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./etc/", "directory containing main.toml")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func readConfig() error {
	var err error

	cfg, err = config.ReadConfig(configPath)

	return err
}
