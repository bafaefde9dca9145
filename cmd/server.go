package cmd

import (
	"sounddeck/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the sounddeck server",
	Long:  `Starts the sounddeck HTTP server: clip library API, hotkey grid, playback control and the websocket session feed.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
