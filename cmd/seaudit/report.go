package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rushigerrard8/selinux-policy-auditor/internal/analysis"
	"github.com/rushigerrard8/selinux-policy-auditor/internal/db"
	"github.com/rushigerrard8/selinux-policy-auditor/internal/report"
	"github.com/rushigerrard8/selinux-policy-auditor/internal/session"

	_ "modernc.org/sqlite"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Re-render the usage report from a session database",
	RunE:  runReport,
}

var (
	reportDB  string
	reportOut string
)

func init() {
	reportCmd.Flags().StringVarP(&reportDB, "db", "d", "", "Path to session database (default: latest)")
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "./data", "Session directory when --db is not given")
}

func runReport(cmd *cobra.Command, args []string) error {
	dbPath, err := resolveSessionDB(reportDB, reportOut)
	if err != nil {
		return err
	}

	database, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	if err := db.ApplyReadPragmas(database); err != nil {
		return fmt.Errorf("failed to apply pragmas: %w", err)
	}

	meta, err := db.GetSessionMeta(database)
	if err != nil {
		return err
	}
	rules, err := db.LoadRules(database)
	if err != nil {
		return err
	}
	events, err := db.LoadEvents(database)
	if err != nil {
		return err
	}

	result := analysis.Analyze(meta.Context, rules, events)
	report.Render(os.Stdout, result)

	return nil
}

// resolveSessionDB picks an explicit database path or the newest
// session in the output directory.
func resolveSessionDB(explicit, outDir string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	return session.NewManager(outDir, 0).Latest()
}
