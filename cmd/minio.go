package cmd

import (
	"fmt"
	"log"

	"sounddeck/storage"

	"github.com/spf13/cobra"
)

var minioCmd = &cobra.Command{
	Use:   "minio",
	Short: "Check the MinIO connection",
	Long:  `Connects to the configured MinIO endpoint and verifies that the clip bucket exists.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := storage.InitMinio(); err != nil {
			log.Fatalf("Cannot connect to MinIO: %v", err)
		}
		fmt.Println("MinIO connection OK, clip bucket is reachable.")
	},
}

func init() {
	rootCmd.AddCommand(minioCmd)
}
