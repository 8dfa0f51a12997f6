package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Roelanb/studyplan/internal/config"
)

// Version injected at build time with: -ldflags "-X 'main.version=1.2.3'"
var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "studyplan",
		Short: "Study plan request form and client",
		Long: `studyplan serves the study plan request form, relays submissions to the
study plan creator and renders the returned markdown as HTML.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.LoadDotEnv()
		},
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newOptionsCmd())
	rootCmd.AddCommand(newSubmitCmd())

	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed, color.Bold).Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
