// Package avc parses SELinux AVC records from the audit stream.
//
// The kernel emits one audit record per access vector decision. Reading
// those records back out of the audit log observes the same grants and
// denials the policy enforced, without loading anything into the kernel.
package avc

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rushigerrard8/selinux-policy-auditor/internal/selinux"
)

// Decision is the outcome of an AVC check.
type Decision string

const (
	Granted Decision = "granted"
	Denied  Decision = "denied"
)

// Record is one parsed AVC audit record.
type Record struct {
	Time        time.Time
	Decision    Decision
	Permissions []string
	PID         int
	Comm        string
	Path        string
	SContext    string
	TContext    string
	TClass      string
	Permissive  bool
}

// SourceType returns the type component of the source context.
func (r Record) SourceType() string {
	return contextType(r.SContext)
}

// TargetType returns the type component of the target context.
func (r Record) TargetType() string {
	return contextType(r.TContext)
}

// contextType extracts the type from user:role:type[:level...].
func contextType(ctx string) string {
	parts := strings.Split(ctx, ":")
	if len(parts) < 3 {
		return ctx
	}
	return parts[2]
}

var (
	timestampRe = regexp.MustCompile(`msg=audit\((\d+)\.(\d+):\d+\)`)
	decisionRe  = regexp.MustCompile(`avc:\s+(granted|denied)\s+\{\s*([^}]+?)\s*\}`)
	pidRe       = regexp.MustCompile(`\bpid=(\d+)`)
	commRe      = regexp.MustCompile(`\bcomm="([^"]*)"`)
	pathRe      = regexp.MustCompile(`\bpath="([^"]*)"`)
	nameRe      = regexp.MustCompile(`\bname="([^"]*)"`)
	scontextRe  = regexp.MustCompile(`\bscontext=(\S+)`)
	tcontextRe  = regexp.MustCompile(`\btcontext=(\S+)`)
	tclassRe    = regexp.MustCompile(`\btclass=(\S+)`)
	permRe      = regexp.MustCompile(`\bpermissive=(\d)`)
)

// ParseRecord parses a single audit log line. It returns false for
// anything that is not an AVC record.
func ParseRecord(line string) (Record, bool) {
	if !strings.Contains(line, "avc: ") {
		return Record{}, false
	}

	dm := decisionRe.FindStringSubmatch(line)
	if dm == nil {
		return Record{}, false
	}

	rec := Record{
		Decision:    Decision(dm[1]),
		Permissions: strings.Fields(dm[2]),
	}

	if m := timestampRe.FindStringSubmatch(line); m != nil {
		sec, _ := strconv.ParseInt(m[1], 10, 64)
		msec, _ := strconv.ParseInt(m[2], 10, 64)
		rec.Time = time.Unix(sec, msec*int64(time.Millisecond))
	}
	if m := pidRe.FindStringSubmatch(line); m != nil {
		rec.PID, _ = strconv.Atoi(m[1])
	}
	if m := commRe.FindStringSubmatch(line); m != nil {
		rec.Comm = m[1]
	}
	if m := pathRe.FindStringSubmatch(line); m != nil {
		rec.Path = m[1]
	} else if m := nameRe.FindStringSubmatch(line); m != nil {
		rec.Path = m[1]
	}
	if m := scontextRe.FindStringSubmatch(line); m != nil {
		rec.SContext = m[1]
	}
	if m := tcontextRe.FindStringSubmatch(line); m != nil {
		rec.TContext = m[1]
	}
	if m := tclassRe.FindStringSubmatch(line); m != nil {
		rec.TClass = m[1]
	}
	if m := permRe.FindStringSubmatch(line); m != nil {
		rec.Permissive = m[1] == "1"
	}

	rec.Permissions = decodeHexPerms(rec.Permissions, rec.TClass)

	return rec, true
}

// decodeHexPerms resolves hex access-vector masks in a permission set.
// The kernel prints "{ 0x... }" when it has no name string for a
// permission bit.
func decodeHexPerms(perms []string, tclass string) []string {
	id, ok := selinux.ClassID(tclass)
	if !ok {
		return perms
	}

	var out []string
	for _, p := range perms {
		if strings.HasPrefix(p, "0x") {
			if bits, err := strconv.ParseUint(p, 0, 32); err == nil {
				out = append(out, selinux.DecodePermissions(uint32(bits), id)...)
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

// ParseAll reads audit log lines from r and returns the AVC records.
func ParseAll(r io.Reader) ([]Record, error) {
	var records []Record

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if rec, ok := ParseRecord(scanner.Text()); ok {
			records = append(records, rec)
		}
	}
	if err := scanner.Err(); err != nil {
		return records, err
	}
	return records, nil
}
