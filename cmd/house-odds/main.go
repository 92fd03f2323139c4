package main

import (
	"log"

	"github.com/spf13/cobra"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:           "house-odds",
	Short:         "Live house odds preview for weighted outcome markets",
	Long:          `Computes margin-adjusted decimal odds for a set of weighted outcomes, from the command line or as an HTTP and WebSocket preview service.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.AddCommand(newQuoteCmd())
	rootCmd.AddCommand(newServeCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
