// Gramofon-ctl is a management utility for Fon Gramofon WiFi-audio devices.
//
// It provides network discovery, initial WiFi setup, and control commands
// (rename, LED, reboot, factory reset) for Gramofon devices, speaking the
// JSON-RPC API recovered from the original Setup APK. Commands can target a
// single device or every known device in one pass.
//
// Usage:
//
//	gramofon-ctl [command] [flags]
//
// See 'gramofon-ctl --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/luisfcorreia/fon-gramofon-support/internal/logging"
	"github.com/luisfcorreia/fon-gramofon-support/internal/version"
)

func main() {
	defer logging.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gramofon-ctl",
	Short: "Gramofon Device Management Utility",
	Long: `A standalone utility for managing Fon Gramofon WiFi-audio devices.

Provides subnet discovery, initial WiFi setup, and device control commands
(name, LED, reboot, factory reset) for Gramofon devices. The original
vendor app stopped working on modern phones; this tool replaces it.

Note: the Gramofon firmware ships with fixed admin/admin credentials on
every device. Anyone on your network can control these devices.`,
	Version: version.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Silent unless GRAMOFON_LOG_LEVEL is set
		return logging.InitializeFromEnv()
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gramofon-ctl %s (commit: %s)\n", version.Version, version.Commit)
	},
}
