package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "minimarket",
	Short: "Minimarket back office: CRUD API and admin panel",
	Long: `Serves the generic CRUD dispatcher (/router), the descriptor document
(/configuration) and the server rendered admin panel. The list and delete
commands talk to a running server.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (yaml/json); MINIMARKET_* env vars override it")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(modulesCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(deleteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
