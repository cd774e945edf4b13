package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rushigerrard8/selinux-policy-auditor/internal/probe"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Run the read-only filesystem workload generator",
	Long: `Run the diagnostic workload generator: every 10 seconds it enumerates
/var/log, issues three distinct metadata probes per entry, and attempts
bounded reads from a fixed list of log files. The probe only reads; it
never creates, modifies, or deletes anything. All targets are
compiled-in so the generated access pattern is always the same.

The probe runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runProbe,
}

func runProbe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nStopping... (press Ctrl+C again to force)")
		cancel()
		<-sigCh
		os.Exit(130)
	}()

	scanner := probe.NewScanner(probe.DefaultConfig())
	if err := scanner.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Probe stopped.")
			return nil
		}
		return err
	}
	return nil
}
