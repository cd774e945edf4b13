package main

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rushigerrard8/selinux-policy-auditor/internal/db"

	_ "modernc.org/sqlite"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Display session metadata",
	Long:  `Print metadata about a capture session including timestamps and statistics.`,
	RunE:  runInfo,
}

var (
	infoDB  string
	infoOut string
)

func init() {
	infoCmd.Flags().StringVarP(&infoDB, "db", "d", "", "Path to session database (default: latest)")
	infoCmd.Flags().StringVarP(&infoOut, "out", "o", "./data", "Session directory when --db is not given")
}

func runInfo(cmd *cobra.Command, args []string) error {
	dbPath, err := resolveSessionDB(infoDB, infoOut)
	if err != nil {
		return err
	}

	database, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	meta, err := db.GetSessionMeta(database)
	if err != nil {
		return err
	}

	fmt.Printf("Session Information\n")
	fmt.Printf("===================\n\n")
	fmt.Printf("Context:      %s\n", meta.Context)
	fmt.Printf("Audit Log:    %s\n", meta.AuditLog)
	fmt.Printf("Start Time:   %s\n", meta.StartTime.Format(time.RFC3339))
	if !meta.EndTime.IsZero() {
		fmt.Printf("End Time:     %s\n", meta.EndTime.Format(time.RFC3339))
		fmt.Printf("Duration:     %s\n", meta.EndTime.Sub(meta.StartTime).Round(time.Second))
	}
	fmt.Printf("\nStatistics\n")
	fmt.Printf("----------\n")
	fmt.Printf("Allow Rules:  %s\n", humanize.Comma(meta.RuleCount))
	fmt.Printf("AVC Events:   %s\n", humanize.Comma(meta.EventCount))
	fmt.Printf("Permissions:  %s granted, %s used\n",
		humanize.Comma(meta.TotalPermissions), humanize.Comma(meta.UsedPermissions))
	if meta.TotalPermissions > 0 {
		unused := meta.TotalPermissions - meta.UsedPermissions
		fmt.Printf("Unused:       %s (%.1f%%)\n",
			humanize.Comma(unused), 100*float64(unused)/float64(meta.TotalPermissions))
	}

	return nil
}
