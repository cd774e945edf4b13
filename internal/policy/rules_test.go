package policy

import (
	"reflect"
	"testing"
)

func TestParseRuleBracedSet(t *testing.T) {
	rule, ok := ParseRule("allow httpd_t httpd_log_t:file { read write getattr };")
	if !ok {
		t.Fatalf("expected rule")
	}
	if rule.Source != "httpd_t" || rule.Target != "httpd_log_t" || rule.Class != "file" {
		t.Fatalf("unexpected rule: %+v", rule)
	}
	want := []string{"read", "write", "getattr"}
	if !reflect.DeepEqual(rule.Permissions, want) {
		t.Fatalf("permissions = %v, want %v", rule.Permissions, want)
	}
}

func TestParseRuleSinglePermission(t *testing.T) {
	rule, ok := ParseRule("allow httpd_t httpd_log_t:dir search;")
	if !ok {
		t.Fatalf("expected rule")
	}
	if !reflect.DeepEqual(rule.Permissions, []string{"search"}) {
		t.Fatalf("permissions = %v", rule.Permissions)
	}
}

func TestParseRuleRejectsNonRules(t *testing.T) {
	for _, line := range []string{
		"",
		"Found 12 semantic av rules:",
		"dontaudit httpd_t shadow_t:file read;",
		"allow malformed",
	} {
		if _, ok := ParseRule(line); ok {
			t.Errorf("unexpectedly parsed %q", line)
		}
	}
}

func TestParseFiltersBySourceContext(t *testing.T) {
	output := `Found 3 semantic av rules:
   allow httpd_t httpd_log_t:file { read getattr open };
   allow httpd_t var_log_t:dir { search getattr };
   allow sshd_t sshd_key_t:file { read };
`
	rules := Parse(output, "httpd_t")
	if len(rules) != 2 {
		t.Fatalf("parsed %d rules, want 2", len(rules))
	}
	if rules[0].Target != "httpd_log_t" || rules[1].Target != "var_log_t" {
		t.Fatalf("unexpected targets: %+v", rules)
	}
}

func TestTotalPermissions(t *testing.T) {
	rules := Parse(`allow a_t b_t:file { read write };
allow a_t c_t:dir search;`, "a_t")
	if got := TotalPermissions(rules); got != 3 {
		t.Fatalf("total permissions = %d, want 3", got)
	}
}
