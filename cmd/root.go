package cmd

import (
	"fmt"
	"log"
	"os"

	"sounddeck/server"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sounddeck",
	Short: "sounddeck is a browser-based hotkey soundboard server.",
	Run: func(cmd *cobra.Command, args []string) {
		log.Println("Starting sounddeck server...")
		server.Start()
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
