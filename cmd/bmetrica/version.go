package main

import (
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/indraniel/bmetrica/internal/collector"
)

// NewVersionCmd creates the version command
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("bmetrica %s\n", version)
			cmd.Printf("drivers: %s\n", strings.Join(collector.SupportedDrivers(), ", "))
			cmd.Printf("go: %s (%s/%s)\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
