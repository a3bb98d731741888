/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mxp-gateway",
	Short: "Gateway exposing shipboard MXP system data over REST, tool-dispatch, and MCP",
	Long: `mxp-gateway adapts the shipboard MXP property management system for
LLM and service consumption. It forwards lookups (accounts, folios, crew,
documents, manifests, receipts, invoices) to the upstream MXP HTTP API,
maintains a small file-backed knowledge base, and optionally runs read-only
SQL queries and semantic document search.

Three front-ends are available as subcommands:

  start     REST API server
  dispatch  generic tool-dispatch HTTP server (POST /mcp envelope)
  mcp       Model Context Protocol server (stdio, sse, or http transport)`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config/config.yaml", "config file")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".mxp-gateway")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
