package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rushigerrard8/selinux-policy-auditor/internal/policy"
)

var rulesCmd = &cobra.Command{
	Use:   "rules <context>",
	Short: "Extract allow rules for a source context",
	Long:  `Query the loaded SELinux policy with sesearch and list the allow rules for the given source context.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runRules,
}

func runRules(cmd *cobra.Command, args []string) error {
	sctx := args[0]

	rules, err := policy.Extract(context.Background(), sctx)
	if err != nil {
		return err
	}

	if len(rules) == 0 {
		fmt.Printf("No allow rules found for context %q\n", sctx)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "SOURCE\tTARGET\tCLASS\tPERMISSIONS\n")
	for _, r := range rules {
		fmt.Fprintf(w, "%s\t%s\t%s\t{ %s }\n", r.Source, r.Target, r.Class, strings.Join(r.Permissions, " "))
	}
	w.Flush()

	fmt.Printf("\n%s rules, %s permissions\n",
		humanize.Comma(int64(len(rules))),
		humanize.Comma(int64(policy.TotalPermissions(rules))))

	return nil
}
