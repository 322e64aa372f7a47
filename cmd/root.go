package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	configPath string
	debugMode  bool
)

var rootCmd = &cobra.Command{
	Use:   "agendabot",
	Short: "Google Calendar assistant for the command line and MCP",
	Long: `agendabot reads and writes your Google Calendar.

Run it without arguments for today's digest, or start it as an MCP server
so assistant frameworks can call the calendar tool.`,
	SilenceUsage: true,
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute runs the root command. Without arguments it shows today's digest.
func Execute() {
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "today")
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.agendabot/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging")
}
