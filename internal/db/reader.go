package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rushigerrard8/selinux-policy-auditor/internal/avc"
	"github.com/rushigerrard8/selinux-policy-auditor/internal/policy"
)

// SessionMeta holds metadata about a capture session.
type SessionMeta struct {
	Context          string
	AuditLog         string
	StartTime        time.Time
	EndTime          time.Time
	RuleCount        int64
	EventCount       int64
	TotalPermissions int64
	UsedPermissions  int64
}

// GetSessionMeta reads the session metadata row.
func GetSessionMeta(db *sql.DB) (*SessionMeta, error) {
	var meta SessionMeta
	var start, end int64

	err := db.QueryRow(`
		SELECT context, audit_log, start_time, COALESCE(end_time, 0),
		       rule_count, event_count, total_permissions, used_permissions
		FROM session_meta WHERE id = 1
	`).Scan(&meta.Context, &meta.AuditLog, &start, &end,
		&meta.RuleCount, &meta.EventCount, &meta.TotalPermissions, &meta.UsedPermissions)
	if err != nil {
		return nil, fmt.Errorf("failed to read session metadata: %w", err)
	}

	meta.StartTime = time.Unix(start, 0)
	if end > 0 {
		meta.EndTime = time.Unix(end, 0)
	}
	return &meta, nil
}

// LoadRules returns all stored policy rules in insertion order.
func LoadRules(db *sql.DB) ([]policy.Rule, error) {
	rows, err := db.Query(`SELECT source, target, class, permissions, raw FROM rules ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query rules: %w", err)
	}
	defer rows.Close()

	var rules []policy.Rule
	for rows.Next() {
		var r policy.Rule
		var perms string
		if err := rows.Scan(&r.Source, &r.Target, &r.Class, &perms, &r.Raw); err != nil {
			return nil, fmt.Errorf("scan rule: %w", err)
		}
		r.Permissions = strings.Fields(perms)
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

// LoadEvents returns all stored AVC records in capture order.
func LoadEvents(db *sql.DB) ([]avc.Record, error) {
	rows, err := db.Query(`
		SELECT time, decision, permissions, pid, comm, path, scontext, tcontext, tclass, permissive
		FROM events ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []avc.Record
	for rows.Next() {
		var ev avc.Record
		var ts int64
		var decision, perms string
		var permissive int
		if err := rows.Scan(&ts, &decision, &perms, &ev.PID, &ev.Comm, &ev.Path,
			&ev.SContext, &ev.TContext, &ev.TClass, &permissive); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Time = time.Unix(ts, 0)
		ev.Decision = avc.Decision(decision)
		ev.Permissions = strings.Fields(perms)
		ev.Permissive = permissive == 1
		events = append(events, ev)
	}
	return events, rows.Err()
}

// LoadUsedPerms returns the stored used-permission set.
func LoadUsedPerms(db *sql.DB) (map[policy.Key]struct{}, error) {
	rows, err := db.Query(`SELECT source, target, class, perm FROM used_perms`)
	if err != nil {
		return nil, fmt.Errorf("query usage: %w", err)
	}
	defer rows.Close()

	used := make(map[policy.Key]struct{})
	for rows.Next() {
		var key policy.Key
		if err := rows.Scan(&key.Source, &key.Target, &key.Class, &key.Perm); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		used[key] = struct{}{}
	}
	return used, rows.Err()
}
