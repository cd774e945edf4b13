package db

import (
	"database/sql"
	"testing"
	"time"

	"github.com/rushigerrard8/selinux-policy-auditor/internal/analysis"
	"github.com/rushigerrard8/selinux-policy-auditor/internal/avc"
	"github.com/rushigerrard8/selinux-policy-auditor/internal/policy"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// Every pooled connection would get its own empty in-memory database.
	database.SetMaxOpenConns(1)
	t.Cleanup(func() { database.Close() })

	if err := InitSchema(database); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return database
}

func TestSessionRoundTrip(t *testing.T) {
	database := openTestDB(t)

	start := time.Unix(1700000000, 0)
	if err := InitSession(database, "httpd_t", "/var/log/audit/audit.log", start); err != nil {
		t.Fatalf("init session: %v", err)
	}

	rules := []policy.Rule{
		{Source: "httpd_t", Target: "httpd_log_t", Class: "file",
			Permissions: []string{"read", "getattr"}, Raw: "allow httpd_t httpd_log_t:file { read getattr };"},
	}
	if err := WriteRules(database, rules); err != nil {
		t.Fatalf("write rules: %v", err)
	}

	events := []avc.Record{
		{Time: start, Decision: avc.Granted, Permissions: []string{"read"},
			PID: 42, Comm: "httpd", Path: "/var/log/httpd/error_log",
			SContext: "system_u:system_r:httpd_t:s0",
			TContext: "system_u:object_r:httpd_log_t:s0", TClass: "file"},
	}
	if err := WriteEvents(database, events); err != nil {
		t.Fatalf("write events: %v", err)
	}

	result := analysis.Analyze("httpd_t", rules, events)
	if err := WriteResult(database, result, start.Add(time.Minute)); err != nil {
		t.Fatalf("write result: %v", err)
	}

	meta, err := GetSessionMeta(database)
	if err != nil {
		t.Fatalf("meta: %v", err)
	}
	if meta.Context != "httpd_t" || meta.RuleCount != 1 || meta.EventCount != 1 {
		t.Fatalf("unexpected meta: %+v", meta)
	}
	if meta.TotalPermissions != 2 || meta.UsedPermissions != 1 {
		t.Fatalf("permission counters: %+v", meta)
	}
	if !meta.EndTime.After(meta.StartTime) {
		t.Fatalf("end time not set: %+v", meta)
	}

	gotRules, err := LoadRules(database)
	if err != nil {
		t.Fatalf("load rules: %v", err)
	}
	if len(gotRules) != 1 || gotRules[0].Permissions[1] != "getattr" {
		t.Fatalf("rules: %+v", gotRules)
	}

	gotEvents, err := LoadEvents(database)
	if err != nil {
		t.Fatalf("load events: %v", err)
	}
	if len(gotEvents) != 1 || gotEvents[0].Decision != avc.Granted || gotEvents[0].PID != 42 {
		t.Fatalf("events: %+v", gotEvents)
	}

	used, err := LoadUsedPerms(database)
	if err != nil {
		t.Fatalf("load usage: %v", err)
	}
	key := policy.Key{Source: "httpd_t", Target: "httpd_log_t", Class: "file", Perm: "read"}
	if _, ok := used[key]; !ok || len(used) != 1 {
		t.Fatalf("usage: %v", used)
	}
}

func TestWriteEventsEmptyBatch(t *testing.T) {
	database := openTestDB(t)
	if err := WriteEvents(database, nil); err != nil {
		t.Fatalf("empty batch: %v", err)
	}
}
