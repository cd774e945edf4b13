package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rushigerrard8/selinux-policy-auditor/internal/analysis"
	"github.com/rushigerrard8/selinux-policy-auditor/internal/avc"
	"github.com/rushigerrard8/selinux-policy-auditor/internal/policy"
)

const insertRuleSQL = `INSERT INTO rules (source, target, class, permissions, raw) VALUES (?, ?, ?, ?, ?)`
const insertEventSQL = `INSERT INTO events (time, decision, permissions, pid, comm, path, scontext, tcontext, tclass, permissive) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
const insertUsedSQL = `INSERT OR IGNORE INTO used_perms (source, target, class, perm) VALUES (?, ?, ?, ?)`

// InitSession records session metadata at capture start.
func InitSession(db *sql.DB, sctx, auditLog string, start time.Time) error {
	_, err := db.Exec(
		`INSERT INTO session_meta (id, context, audit_log, start_time) VALUES (1, ?, ?, ?)`,
		sctx, auditLog, start.Unix(),
	)
	return err
}

// WriteRules stores the extracted policy rules in one transaction.
func WriteRules(db *sql.DB, rules []policy.Rule) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(insertRuleSQL)
	if err != nil {
		return fmt.Errorf("prepare rule statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range rules {
		if _, err := stmt.Exec(r.Source, r.Target, r.Class, strings.Join(r.Permissions, " "), r.Raw); err != nil {
			return fmt.Errorf("insert rule: %w", err)
		}
	}

	return tx.Commit()
}

// WriteEvents stores captured AVC records in one transaction. It is
// called per capture batch, not per record.
func WriteEvents(db *sql.DB, events []avc.Record) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(insertEventSQL)
	if err != nil {
		return fmt.Errorf("prepare event statement: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		permissive := 0
		if ev.Permissive {
			permissive = 1
		}
		_, err := stmt.Exec(
			ev.Time.Unix(), string(ev.Decision), strings.Join(ev.Permissions, " "),
			ev.PID, ev.Comm, ev.Path, ev.SContext, ev.TContext, ev.TClass, permissive,
		)
		if err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
	}

	return tx.Commit()
}

// WriteResult stores the used-permission set and finalizes the session
// metadata counters.
func WriteResult(db *sql.DB, result *analysis.Result, end time.Time) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(insertUsedSQL)
	if err != nil {
		return fmt.Errorf("prepare usage statement: %w", err)
	}
	defer stmt.Close()

	for _, group := range [][]analysis.RuleUsage{result.FullyUsed, result.PartiallyUsed} {
		for _, usage := range group {
			for _, perm := range usage.Used {
				rule := usage.Rule
				if _, err := stmt.Exec(rule.Source, rule.Target, rule.Class, perm); err != nil {
					return fmt.Errorf("insert usage: %w", err)
				}
			}
		}
	}

	_, err = tx.Exec(
		`UPDATE session_meta SET end_time = ?, rule_count = ?, event_count = ?, total_permissions = ?, used_permissions = ? WHERE id = 1`,
		end.Unix(), result.RuleCount, result.EventCount, result.TotalPermissions, result.UsedPermissions,
	)
	if err != nil {
		return fmt.Errorf("update session meta: %w", err)
	}

	return tx.Commit()
}
