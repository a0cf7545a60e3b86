package main

import (
	"time"

	"shop-order-scheduler/internal/tui"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

var dashboardInterval time.Duration

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Watch the scheduling dashboard in the terminal",
	Args:  cobra.NoArgs,
	RunE:  runDashboard,
}

func init() {
	dashboardCmd.Flags().DurationVar(&dashboardInterval, "interval", tui.DefaultRefreshInterval, "refresh interval")
}

func runDashboard(_ *cobra.Command, _ []string) error {
	if err := tui.New(apiAddr, dashboardInterval).Run(); err != nil {
		return errors.Wrap(err, "dashboard")
	}
	return nil
}
