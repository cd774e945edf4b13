// Package report renders the used-vs-granted analysis for humans.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/rushigerrard8/selinux-policy-auditor/internal/analysis"
)

// Render writes the full analysis report to w.
func Render(w io.Writer, result *analysis.Result) {
	fmt.Fprintln(w, titleStyle.Render("SELinux Policy Usage Report"))
	fmt.Fprintf(w, "Context:     %s\n", result.Context)
	fmt.Fprintf(w, "AVC events:  %s\n", FormatCount(int64(result.EventCount)))
	fmt.Fprintf(w, "Allow rules: %s\n", FormatCount(int64(result.RuleCount)))
	fmt.Fprintln(w)

	if result.EventCount == 0 {
		fmt.Fprintln(w, "No events captured. Make sure:")
		fmt.Fprintln(w, "  1. The workload is running")
		fmt.Fprintln(w, "  2. The workload is performing file operations")
		fmt.Fprintln(w, "  3. You have privileges to read the audit log")
		return
	}

	renderStatistics(w, result)

	if len(result.PartiallyUsed) > 0 {
		fmt.Fprintln(w, sectionStyle.Render("PARTIALLY USED RULES (some permissions excessive)"))
		for i, usage := range result.PartiallyUsed {
			fmt.Fprintf(w, "\n%2d. %s\n", i+1, ruleHeader(usage))
			fmt.Fprintf(w, "    %s\n", usedStyle.Render(fmt.Sprintf("+ used:   { %s }", strings.Join(usage.Used, " "))))
			fmt.Fprintf(w, "    %s\n", unusedStyle.Render(fmt.Sprintf("- unused: { %s }", strings.Join(usage.Unused, " "))))
		}
		fmt.Fprintln(w)
	}

	if len(result.Unused) > 0 {
		fmt.Fprintln(w, sectionStyle.Render("COMPLETELY UNUSED RULES (candidates for removal)"))
		fmt.Fprintln(w)
		for i, usage := range result.Unused {
			fmt.Fprintf(w, "%2d. %s\n", i+1,
				unusedStyle.Render(fmt.Sprintf("allow %s %s:%s { %s };",
					usage.Rule.Source, usage.Rule.Target, usage.Rule.Class, strings.Join(usage.Unused, " "))))
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, mutedStyle.Render("These permissions were never exercised and may be removable"))
		fmt.Fprintln(w, mutedStyle.Render("to reduce the attack surface."))
		fmt.Fprintln(w)
	}

	if len(result.FullyUsed) > 0 {
		fmt.Fprintln(w, sectionStyle.Render("FULLY USED RULES (all permissions needed)"))
		fmt.Fprintln(w)
		for i, usage := range result.FullyUsed {
			fmt.Fprintf(w, "%2d. %s\n", i+1,
				usedStyle.Render(fmt.Sprintf("allow %s %s:%s { %s };",
					usage.Rule.Source, usage.Rule.Target, usage.Rule.Class, strings.Join(usage.Used, " "))))
		}
		fmt.Fprintln(w)
	}
}

func renderStatistics(w io.Writer, result *analysis.Result) {
	fmt.Fprintln(w, sectionStyle.Render("STATISTICS"))

	total := result.TotalPermissions
	used := result.UsedPermissions
	unused := result.UnusedPermissions()

	fmt.Fprintf(w, "Total rules:        %s\n", FormatCount(int64(result.RuleCount)))
	fmt.Fprintf(w, "Total permissions:  %s\n", FormatCount(int64(total)))
	if total > 0 {
		fmt.Fprintf(w, "Used permissions:   %s (%s)\n",
			FormatCount(int64(used)), partialStyle.Render(percent(used, total)))
		fmt.Fprintf(w, "Unused permissions: %s (%s)\n",
			FormatCount(int64(unused)), partialStyle.Render(percent(unused, total)))
	}
	fmt.Fprintln(w)
}

func ruleHeader(usage analysis.RuleUsage) string {
	return fmt.Sprintf("allow %s %s:%s", usage.Rule.Source, usage.Rule.Target, usage.Rule.Class)
}

func percent(n, total int) string {
	return fmt.Sprintf("%.1f%%", 100*float64(n)/float64(total))
}
