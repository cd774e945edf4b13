package analysis

import (
	"reflect"
	"testing"

	"github.com/rushigerrard8/selinux-policy-auditor/internal/avc"
	"github.com/rushigerrard8/selinux-policy-auditor/internal/policy"
)

func rule(source, target, class string, perms ...string) policy.Rule {
	return policy.Rule{Source: source, Target: target, Class: class, Permissions: perms}
}

func event(decision avc.Decision, tcontext, tclass string, perms ...string) avc.Record {
	return avc.Record{
		Decision:    decision,
		Permissions: perms,
		SContext:    "system_u:system_r:httpd_t:s0",
		TContext:    tcontext,
		TClass:      tclass,
	}
}

func TestAnalyzeSplitsRules(t *testing.T) {
	rules := []policy.Rule{
		rule("httpd_t", "httpd_log_t", "file", "read", "getattr", "open"),
		rule("httpd_t", "httpd_log_t", "dir", "search", "write"),
		rule("httpd_t", "shadow_t", "file", "read"),
	}
	events := []avc.Record{
		event(avc.Granted, "system_u:object_r:httpd_log_t:s0", "file", "read", "getattr", "open"),
		event(avc.Granted, "system_u:object_r:httpd_log_t:s0", "dir", "search"),
	}

	res := Analyze("httpd_t", rules, events)

	if res.EventCount != 2 || res.RuleCount != 3 {
		t.Fatalf("counts: %+v", res)
	}
	if res.TotalPermissions != 6 || res.UsedPermissions != 4 {
		t.Fatalf("permissions: total=%d used=%d", res.TotalPermissions, res.UsedPermissions)
	}
	if res.UnusedPermissions() != 2 {
		t.Fatalf("unused = %d, want 2", res.UnusedPermissions())
	}

	if len(res.FullyUsed) != 1 || res.FullyUsed[0].Rule.Class != "file" {
		t.Fatalf("fully used: %+v", res.FullyUsed)
	}
	if len(res.PartiallyUsed) != 1 {
		t.Fatalf("partially used: %+v", res.PartiallyUsed)
	}
	if !reflect.DeepEqual(res.PartiallyUsed[0].Unused, []string{"write"}) {
		t.Fatalf("partial unused = %v", res.PartiallyUsed[0].Unused)
	}
	if len(res.Unused) != 1 || res.Unused[0].Rule.Target != "shadow_t" {
		t.Fatalf("unused rules: %+v", res.Unused)
	}
}

func TestAnalyzeTargetTypeFiltersCredit(t *testing.T) {
	rules := []policy.Rule{
		rule("httpd_t", "httpd_log_t", "file", "read"),
		rule("httpd_t", "var_log_t", "file", "read"),
	}
	events := []avc.Record{
		event(avc.Granted, "system_u:object_r:httpd_log_t:s0", "file", "read"),
	}

	res := Analyze("httpd_t", rules, events)

	if len(res.FullyUsed) != 1 || res.FullyUsed[0].Rule.Target != "httpd_log_t" {
		t.Fatalf("fully used: %+v", res.FullyUsed)
	}
	if len(res.Unused) != 1 || res.Unused[0].Rule.Target != "var_log_t" {
		t.Fatalf("unused: %+v", res.Unused)
	}
}

func TestAnalyzeWithoutTargetCreditsByClass(t *testing.T) {
	rules := []policy.Rule{
		rule("httpd_t", "httpd_log_t", "file", "read"),
		rule("httpd_t", "var_log_t", "file", "read"),
	}
	events := []avc.Record{
		{Decision: avc.Granted, Permissions: []string{"read"}, TClass: "file"},
	}

	res := Analyze("httpd_t", rules, events)

	if len(res.FullyUsed) != 2 {
		t.Fatalf("expected both rules credited, got %+v", res)
	}
}

func TestAnalyzeNoEvents(t *testing.T) {
	rules := []policy.Rule{rule("a_t", "b_t", "file", "read", "write")}
	res := Analyze("a_t", rules, nil)

	if res.UsedPermissions != 0 || len(res.Unused) != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
}
