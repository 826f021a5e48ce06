package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	token     string
	output    string
)

var rootCmd = &cobra.Command{
	Use:          "nef-cli",
	Short:        "A CLI client for the NEF emulator service",
	Long:         `A command-line interface for logging in and managing UEs and paths on a NEF emulator backend.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your CLI: %s\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("NEF_SERVER", "http://localhost:8080"), "base URL of the NEF service")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("NEF_TOKEN"), "bearer token (see `nef-cli login`)")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "json", "output format: json or table")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newClient() *Client {
	return NewClient(serverURL, token)
}
