package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "seaudit",
	Short: "Audit SELinux policy usage against real workloads",
	Long: `seaudit compares the permissions an SELinux policy grants with the
permissions a workload actually exercises. It ships a read-only
filesystem prober that generates a fixed access pattern, captures AVC
decisions from the audit log while a workload runs, and reports which
allow rules are fully used, partially used, or never used at all.`,
}

func init() {
	rootCmd.Version = version
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(infoCmd)
}
