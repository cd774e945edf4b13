// Package probe implements the diagnostic filesystem workload generator.
//
// The scanner exercises a fixed set of access patterns against a fixed
// directory tree in an endless sequential loop: enumerate a target
// directory, issue three distinct metadata probes per entry, then attempt
// bounded reads from a fixed list of candidate files. An external policy
// auditor observes which of the granted permissions the workload actually
// exercises. The scanner only ever reads; it never creates, modifies, or
// deletes anything.
package probe

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"github.com/rushigerrard8/selinux-policy-auditor/internal/pathutil"
)

// Report summarizes one completed scan iteration.
type Report struct {
	Iteration     uint64
	EntriesProbed int
	Dirs          int
	Files         int
	Others        int
	ProbeErrors   int
	SamplesOpened int
	SampleBytes   int64
	DirError      string
	Elapsed       time.Duration
}

// ReportFunc receives the report of each finished iteration.
type ReportFunc func(Report)

// Scanner runs the probe loop. It is strictly sequential; the only state
// carried across iterations is the iteration counter.
type Scanner struct {
	cfg      Config
	out      io.Writer
	reportFn ReportFunc

	iteration uint64
}

// NewScanner creates a scanner for the given configuration, writing
// progress to stdout.
func NewScanner(cfg Config) *Scanner {
	return &Scanner{
		cfg: cfg,
		out: os.Stdout,
	}
}

// SetOutput redirects progress output.
func (s *Scanner) SetOutput(w io.Writer) {
	s.out = w
}

// SetReportFunc sets a callback invoked after every iteration.
func (s *Scanner) SetReportFunc(f ReportFunc) {
	s.reportFn = f
}

// Run executes scan iterations until ctx is cancelled. Every filesystem
// failure is informational; the loop itself never aborts on one.
func (s *Scanner) Run(ctx context.Context) error {
	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		report := s.ScanOnce()
		if s.reportFn != nil {
			s.reportFn(report)
		}

		fmt.Fprintf(s.out, "sleeping %s\n\n", s.cfg.Interval)
		timer.Reset(s.cfg.Interval)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// ScanOnce performs a single iteration: directory enumeration, per-entry
// metadata probes, then bounded sample reads.
func (s *Scanner) ScanOnce() Report {
	s.iteration++
	start := time.Now()
	report := Report{Iteration: s.iteration}

	fmt.Fprintf(s.out, "--- scan iteration %d ---\n", s.iteration)

	if err := s.scanDirectory(&report); err != nil {
		// Missing or inaccessible target directory: skip the remaining
		// phases this iteration, the loop continues regardless.
		report.DirError = err.Error()
		fmt.Fprintf(s.out, "cannot open %s: %v (skipping iteration)\n", s.cfg.TargetDir, err)
		report.Elapsed = time.Since(start)
		return report
	}

	s.sampleFiles(&report)

	report.Elapsed = time.Since(start)
	return report
}

func (s *Scanner) scanDirectory(report *Report) error {
	fmt.Fprintf(s.out, "[dir] enumerating %s\n", s.cfg.TargetDir)

	// A fresh handle every iteration; no enumeration state is cached.
	dir, err := os.Open(s.cfg.TargetDir)
	if err != nil {
		return err
	}

	names, readErr := dir.Readdirnames(-1)
	// The handle is closed exactly once, before sampling starts, whether
	// or not enumeration succeeded.
	dir.Close()
	if readErr != nil {
		fmt.Fprintf(s.out, "partial enumeration of %s: %v\n", s.cfg.TargetDir, readErr)
	}

	listed := 0
	for _, name := range names {
		report.EntriesProbed++

		full, err := pathutil.JoinBounded(s.cfg.TargetDir, name, s.cfg.MaxPathLen)
		if err != nil {
			report.ProbeErrors++
			fmt.Fprintf(s.out, "skipping entry %q: %v\n", name, err)
			continue
		}

		entry, ok := s.probeEntry(full, name)
		if !ok {
			report.ProbeErrors++
			continue
		}

		switch entry.Kind {
		case KindDir:
			report.Dirs++
		case KindFile:
			report.Files++
		default:
			report.Others++
		}

		if listed < s.cfg.VerboseEntries {
			listed++
			if entry.Kind == KindFile {
				fmt.Fprintf(s.out, "  %-5s %s (%d bytes)\n", entry.Kind, entry.Name, entry.Size)
			} else {
				fmt.Fprintf(s.out, "  %-5s %s\n", entry.Kind, entry.Name)
			}
		}
	}

	fmt.Fprintf(s.out, "entries probed: %d\n", report.EntriesProbed)
	return nil
}

// probeEntry issues the three metadata probes for one entry, in a fixed
// order. Each probe exercises a distinct permission check in the host,
// so all three are attempted even though only the first result feeds
// classification. The lstat and access results are discarded on purpose;
// do not optimize the calls away.
func (s *Scanner) probeEntry(path, name string) (Entry, bool) {
	info, statErr := os.Stat(path)
	os.Lstat(path)
	unix.Access(path, unix.R_OK|unix.W_OK)

	if statErr != nil {
		return Entry{}, false
	}

	entry := Entry{
		Name: name,
		Kind: KindFromMode(info.Mode()),
	}
	if entry.Kind == KindFile {
		entry.Size = info.Size()
	}
	return entry, true
}

// sampleFiles attempts a bounded read from every candidate file in list
// order. Absent or inaccessible files are expected and skipped silently;
// one failure never short-circuits the rest of the list.
func (s *Scanner) sampleFiles(report *Report) {
	buf := make([]byte, s.cfg.ReadChunk)

	for _, path := range s.cfg.SampleFiles {
		f, err := os.Open(path)
		if err != nil {
			continue
		}

		// One read, partial results accepted. Small log files are not
		// worth a read-to-completion loop here.
		n, _ := f.Read(buf)
		f.Close()

		report.SamplesOpened++
		report.SampleBytes += int64(n)
	}

	fmt.Fprintf(s.out, "[sample] files opened: %d of %d (%d bytes)\n",
		report.SamplesOpened, len(s.cfg.SampleFiles), report.SampleBytes)
}
