package cmd

import (
	"fmt"
	"os"

	"clementus360/study-assistant/config"

	"github.com/spf13/cobra"
)

var (
	verbose  bool
	envFile  string
	settings config.Settings
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "study-assistant",
	Short: "Chat with documents, summarize videos, explain code and quiz yourself",
	Long: `A terminal client for the learning assistant.

Sign in with your account, then open the dashboard to:
  • Upload a document and ask questions about it
  • Summarize a YouTube video and ask follow-up questions
  • Paste code and get an explanation
  • Generate a multiple-choice quiz from a document

Quick Start:
  study-assistant login --email you@example.com
  study-assistant dashboard`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if envFile != "" {
			config.LoadEnv(envFile)
		} else {
			config.LoadEnv()
		}
		settings = config.Load()

		level := settings.LogLevel
		if verbose {
			level = "debug"
		}
		config.InitLogger(level)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Load environment from this file instead of .env")
}
