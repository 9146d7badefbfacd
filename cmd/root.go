// Package cmd provides the command-line interface for docshell with
// configuration management supporting multiple configuration sources.
//
// Configuration System:
//
//	The CLI supports flexible configuration with clear precedence:
//	1. Command-line flags (--config, --port, etc.) - highest priority
//	2. DOCSHELL_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (DOCSHELL_SERVER_PORT, etc.)
//	4. Configuration files (.docshell.yml) - lowest priority
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "docshell",
	Short: "A lazy-loading documentation site server",
	Long: `Docshell serves a catalog of documentation topics behind a persistent
navigation shell: a static route table maps every topic URL to a content
module that is fetched on first visit, cached for the process lifetime, and
rendered inside the shared header/nav/footer layout. Connected browsers get
live reload and toast notifications over WebSocket.

Quick Start:
  docshell serve                  Start the documentation server
  docshell routes                 List the route table
  docshell check                  Validate catalog, content, and anchors

Command Aliases (for faster typing):
  serve (s), routes (r), check (c)`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .docshell.yml, can also use DOCSHELL_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig initializes the configuration system. Priority, highest first:
// the --config flag, the DOCSHELL_CONFIG_FILE environment variable, then the
// default .docshell.yml in the current directory. Environment variables with
// the DOCSHELL_ prefix override individual values either way.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("DOCSHELL_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".docshell")
	}

	viper.SetEnvPrefix("DOCSHELL")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Missing or malformed config files fall back to defaults rather than
	// aborting startup.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
