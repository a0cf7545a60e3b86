package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func init() {
	// Release mode by default; GIN_MODE overrides.
	gin.SetMode(gin.ReleaseMode)

	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	}

	rootCmd.PersistentFlags().StringVar(&apiAddr, "api", "http://127.0.0.1:8080", "API server address")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(dashboardCmd)
}

var rootCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Production order scheduler",
	Long:  `Schedules production orders onto shop-floor resources and keeps resource availability in step with order status.`,
	RunE:  runServe,
}

var apiAddr string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
