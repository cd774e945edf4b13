// Package analysis matches observed AVC decisions against policy rules
// to split granted permissions into used and unused sets.
package analysis

import (
	"sort"

	"github.com/rushigerrard8/selinux-policy-auditor/internal/avc"
	"github.com/rushigerrard8/selinux-policy-auditor/internal/policy"
)

// RuleUsage is one rule with its permissions split by observed use.
type RuleUsage struct {
	Rule   policy.Rule
	Used   []string
	Unused []string
}

// Result is the outcome of matching events against rules.
type Result struct {
	Context          string
	EventCount       int
	RuleCount        int
	TotalPermissions int
	UsedPermissions  int

	FullyUsed     []RuleUsage
	PartiallyUsed []RuleUsage
	Unused        []RuleUsage
}

// UnusedPermissions returns the count of granted-but-never-exercised
// permissions.
func (r *Result) UnusedPermissions() int {
	return r.TotalPermissions - r.UsedPermissions
}

// Analyze matches events against rules. A permission counts as used for
// every rule of the event's class that grants it; when the event carries
// a target type, only rules targeting that type (or self) are credited.
func Analyze(sctx string, rules []policy.Rule, events []avc.Record) *Result {
	used := make(map[policy.Key]struct{})

	for _, ev := range events {
		target := ev.TargetType()
		for _, perm := range ev.Permissions {
			for _, rule := range rules {
				if rule.Class != ev.TClass {
					continue
				}
				if target != "" && rule.Target != target && rule.Target != "self" {
					continue
				}
				if !hasPerm(rule, perm) {
					continue
				}
				used[policy.Key{
					Source: rule.Source,
					Target: rule.Target,
					Class:  rule.Class,
					Perm:   perm,
				}] = struct{}{}
			}
		}
	}

	result := &Result{
		Context:          sctx,
		EventCount:       len(events),
		RuleCount:        len(rules),
		TotalPermissions: policy.TotalPermissions(rules),
		UsedPermissions:  len(used),
	}

	for _, rule := range rules {
		usage := RuleUsage{Rule: rule}
		for _, perm := range rule.Permissions {
			key := policy.Key{Source: rule.Source, Target: rule.Target, Class: rule.Class, Perm: perm}
			if _, ok := used[key]; ok {
				usage.Used = append(usage.Used, perm)
			} else {
				usage.Unused = append(usage.Unused, perm)
			}
		}
		sort.Strings(usage.Used)
		sort.Strings(usage.Unused)

		switch {
		case len(usage.Used) == 0:
			result.Unused = append(result.Unused, usage)
		case len(usage.Unused) == 0:
			result.FullyUsed = append(result.FullyUsed, usage)
		default:
			result.PartiallyUsed = append(result.PartiallyUsed, usage)
		}
	}

	return result
}

func hasPerm(rule policy.Rule, perm string) bool {
	for _, p := range rule.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}
