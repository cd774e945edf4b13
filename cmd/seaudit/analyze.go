package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rushigerrard8/selinux-policy-auditor/internal/analysis"
	"github.com/rushigerrard8/selinux-policy-auditor/internal/avc"
	"github.com/rushigerrard8/selinux-policy-auditor/internal/db"
	"github.com/rushigerrard8/selinux-policy-auditor/internal/debuglog"
	"github.com/rushigerrard8/selinux-policy-auditor/internal/policy"
	"github.com/rushigerrard8/selinux-policy-auditor/internal/report"
	"github.com/rushigerrard8/selinux-policy-auditor/internal/session"
)

const capturePollInterval = 500 * time.Millisecond

var analyzeCmd = &cobra.Command{
	Use:   "analyze <context>",
	Short: "Capture AVC decisions for a context and report rule usage",
	Long: `Extract the allow rules for the given source context, then capture AVC
decisions from the audit log while the workload runs. Press Ctrl+C to
stop capturing; the rules are then classified into fully used,
partially used, and completely unused, the session is persisted, and
the report is printed.

Run the workload (for example "seaudit probe") while the capture is
active.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var (
	analyzeOut       string
	analyzeRetention int
	analyzeAuditLog  string
	analyzeAusearch  bool
	analyzeDebug     bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "./data", "Output directory for session databases")
	analyzeCmd.Flags().IntVar(&analyzeRetention, "retention", 5, "Number of sessions to retain (0 = unlimited)")
	analyzeCmd.Flags().StringVar(&analyzeAuditLog, "audit-log", avc.DefaultAuditLog, "Audit log file to tail")
	analyzeCmd.Flags().BoolVar(&analyzeAusearch, "ausearch", false, "Collect events with ausearch at stop instead of tailing the log")
	analyzeCmd.Flags().BoolVar(&analyzeDebug, "debug", false, "Write a JSON debug trail to "+debuglog.DefaultPath)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	sctx := args[0]

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nStopping capture... (press Ctrl+C again to force)")
		cancel()
		<-sigCh
		os.Exit(130)
	}()

	var logger *debuglog.Logger
	if analyzeDebug {
		logger = debuglog.New(debuglog.DefaultPath)
	}
	logger.Log("session started", map[string]any{"context": sctx})

	fmt.Printf("Extracting policy rules for context: %s\n", sctx)
	rules, err := policy.Extract(ctx, sctx)
	if err != nil {
		return err
	}
	fmt.Printf("Found %d allow rules (%d permissions)\n", len(rules), policy.TotalPermissions(rules))
	for _, rule := range rules {
		logger.Log("policy rule", map[string]any{
			"source": rule.Source, "target": rule.Target,
			"class": rule.Class, "permissions": rule.Permissions,
		})
	}

	mgr := session.NewManager(analyzeOut, analyzeRetention)
	database, err := mgr.Begin()
	if err != nil {
		return err
	}

	start := time.Now()
	if err := db.InitSession(database, sctx, analyzeAuditLog, start); err != nil {
		mgr.Abort(database)
		return fmt.Errorf("failed to record session: %w", err)
	}
	if err := db.WriteRules(database, rules); err != nil {
		mgr.Abort(database)
		return fmt.Errorf("failed to store rules: %w", err)
	}

	fmt.Println("\nCAPTURE ACTIVE")
	fmt.Println("Run your workload now.")
	fmt.Println("Press Ctrl+C when done to generate the report.")
	fmt.Println()

	events, err := captureEvents(ctx, sctx, start, database, logger)
	if err != nil {
		mgr.Abort(database)
		return err
	}
	fmt.Printf("\nCaptured %d AVC events for %s\n", len(events), sctx)

	result := analysis.Analyze(sctx, rules, events)
	if err := db.WriteResult(database, result, time.Now()); err != nil {
		mgr.Abort(database)
		return fmt.Errorf("failed to store result: %w", err)
	}

	path, err := mgr.Commit(database)
	if err != nil {
		return err
	}

	fmt.Println()
	report.Render(os.Stdout, result)
	fmt.Printf("Session: %s\n", path)

	logger.Log("analysis complete", map[string]any{
		"events": result.EventCount, "used": result.UsedPermissions,
	})
	if logPath, entries := logger.Summary(); entries > 0 {
		fmt.Printf("Debug log: %s (%d entries)\n", logPath, entries)
	}

	return nil
}

// captureEvents collects AVC records for sctx until ctx is cancelled,
// either by tailing the audit log or with one ausearch query at stop.
func captureEvents(ctx context.Context, sctx string, start time.Time, database *sql.DB, logger *debuglog.Logger) ([]avc.Record, error) {
	if analyzeAusearch {
		<-ctx.Done()
		// The capture context is already cancelled; the query gets its own.
		fetchCtx, fetchCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer fetchCancel()

		records, err := avc.Fetch(fetchCtx, start)
		if err != nil {
			return nil, err
		}
		events := filterBySource(records, sctx)
		if err := db.WriteEvents(database, events); err != nil {
			return nil, fmt.Errorf("failed to store events: %w", err)
		}
		return events, nil
	}

	tailer := avc.NewTailer(analyzeAuditLog)
	if err := tailer.SkipToEnd(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("cannot read audit log %s: %w", analyzeAuditLog, err)
	}

	var events []avc.Record
	ticker := time.NewTicker(capturePollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return events, nil
		case <-ticker.C:
			records, err := tailer.Poll()
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: audit log poll failed: %v\n", err)
				continue
			}
			batch := filterBySource(records, sctx)
			if len(batch) == 0 {
				continue
			}
			for _, rec := range batch {
				logger.Log("avc event", map[string]any{
					"decision": string(rec.Decision), "comm": rec.Comm,
					"tclass": rec.TClass, "permissions": rec.Permissions,
				})
			}
			if err := db.WriteEvents(database, batch); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to store events: %v\n", err)
			}
			events = append(events, batch...)
			fmt.Printf("\r%d events captured", len(events))
		}
	}
}

func filterBySource(records []avc.Record, sctx string) []avc.Record {
	var matched []avc.Record
	for _, rec := range records {
		if rec.SourceType() == sctx {
			matched = append(matched, rec)
		}
	}
	return matched
}
