package cmd

import (
	"strings"

	"github.com/Iron-Ham/docreview/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "docreview",
	Short: "Terminal client for reviewing pending documents",
	Long: `docreview fetches one pending document at a time from a Document Service,
shows the extracted text next to a preview, and lets you edit, clean up,
re-run OCR, or finalize the document as a published post, a draft, or a skip.

Running docreview without a subcommand starts the review screen.`,
	Args:         cobra.NoArgs,
	RunE:         runReview,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $XDG_CONFIG_HOME/docreview/config.yaml)")
	rootCmd.PersistentFlags().String("server", "", "Document Service base URL (overrides service.base_url)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("service.base_url", rootCmd.PersistentFlags().Lookup("server"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("DOCREVIEW")
	// Replace dots with underscores for nested keys in env vars
	// e.g., DOCREVIEW_SERVICE_BASE_URL for service.base_url
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
