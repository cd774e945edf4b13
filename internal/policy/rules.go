// Package policy extracts allow rules from the active SELinux policy.
package policy

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rushigerrard8/selinux-policy-auditor/internal/execx"
)

// Rule is a single policy allow rule.
type Rule struct {
	Source      string
	Target      string
	Class       string
	Permissions []string
	Raw         string
}

// Key identifies one granted permission within a rule.
type Key struct {
	Source string
	Target string
	Class  string
	Perm   string
}

// sesearch prints either a braced permission set or a bare single
// permission.
var (
	ruleSetRe    = regexp.MustCompile(`^allow\s+(\S+)\s+(\S+):(\S+)\s+\{\s*([^}]+?)\s*\};?$`)
	ruleSingleRe = regexp.MustCompile(`^allow\s+(\S+)\s+(\S+):(\S+)\s+(\w+);?$`)
)

// ParseRule parses one sesearch output line. It returns false for lines
// that are not allow rules.
func ParseRule(line string) (Rule, bool) {
	line = strings.TrimSpace(line)

	if m := ruleSetRe.FindStringSubmatch(line); m != nil {
		return Rule{
			Source:      m[1],
			Target:      m[2],
			Class:       m[3],
			Permissions: strings.Fields(m[4]),
			Raw:         line,
		}, true
	}
	if m := ruleSingleRe.FindStringSubmatch(line); m != nil {
		return Rule{
			Source:      m[1],
			Target:      m[2],
			Class:       m[3],
			Permissions: []string{m[4]},
			Raw:         line,
		}, true
	}
	return Rule{}, false
}

// Parse extracts the allow rules mentioning source context sctx from
// sesearch output.
func Parse(output, sctx string) []Rule {
	var rules []Rule
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "allow") || !strings.Contains(line, sctx) {
			continue
		}
		if rule, ok := ParseRule(line); ok {
			rules = append(rules, rule)
		}
	}
	return rules
}

// Extract runs sesearch against the loaded policy and returns the allow
// rules whose source is sctx.
func Extract(ctx context.Context, sctx string) ([]Rule, error) {
	res, err := execx.Run(ctx, "sesearch", "--allow", "-s", sctx)
	if err != nil {
		if errors.Is(err, execx.ErrNotFound) {
			return nil, fmt.Errorf("sesearch not found; install the setools package: %w", err)
		}
		return nil, fmt.Errorf("sesearch failed: %w", err)
	}
	return Parse(res.Stdout, sctx), nil
}

// TotalPermissions sums the permission count across rules.
func TotalPermissions(rules []Rule) int {
	total := 0
	for _, r := range rules {
		total += len(r.Permissions)
	}
	return total
}
