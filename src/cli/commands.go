// Package cli defines the livecode-ls command tree.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"livecode-ls/src/server"
)

// CLI Constants
const (
	CmdServer  = "server"
	CmdScan    = "scan"
	CmdCheck   = "check"
	CmdConfig  = "config"
	CmdVersion = "version"
	FlagConfig = "config"
	FlagOut    = "out"
)

// CLI Variables
var (
	configPath string
	outPath    string
)

// Root command
var rootCmd = &cobra.Command{
	Use:   "livecode-ls",
	Short: "livecode-ls - Language server for LiveCode scripts",
	Long: `livecode-ls provides editor tooling for LiveCode scripts (.lc, .livecodescript):
a document outline built by a line-oriented symbol scanner, and validation
diagnostics produced by running an external checker against open documents.

QUICK START:
  livecode-ls server                       # Start the LSP server on stdio
  livecode-ls scan script.lc               # Print the document outline
  livecode-ls check script.lc              # Run the checker once and print diagnostics

CONFIGURATION:
  Settings resolve from --config, then <workspace>/.livecode-ls/config.yaml,
  then ~/.livecode-ls/config.yaml, then built-in defaults. Use
  'livecode-ls config' to write a starter file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Command definitions
var (
	serverCmd = &cobra.Command{
		Use:   CmdServer,
		Short: "Start the language server on stdio",
		Long: `Start the LSP server. The server communicates over stdin/stdout; configure
your editor to run 'livecode-ls server' as the language server for LiveCode
files.`,
		RunE: runServerCmd,
	}

	scanCmd = &cobra.Command{
		Use:   CmdScan + " <file>",
		Short: "Print the symbol outline of a script",
		Args:  cobra.ExactArgs(1),
		RunE:  runScanCmd,
	}

	checkCmd = &cobra.Command{
		Use:   CmdCheck + " <file>",
		Short: "Validate a script with the external checker",
		Args:  cobra.ExactArgs(1),
		RunE:  runCheckCmd,
	}

	configCmd = &cobra.Command{
		Use:   CmdConfig,
		Short: "Write a default configuration file",
		RunE:  runConfigCmd,
	}

	versionCmd = &cobra.Command{
		Use:   CmdVersion,
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("livecode-ls %s\n", server.Version)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, FlagConfig, "", "path to configuration file")
	configCmd.Flags().StringVar(&outPath, FlagOut, "", "where to write the config file (default: user config path)")

	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}
