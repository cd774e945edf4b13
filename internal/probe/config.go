package probe

import "time"

// Compiled-in probe parameters. The prober deliberately takes no
// configuration from the outside world: the point is a fixed, repeatable
// access pattern an auditor can observe.
const (
	// DefaultTargetDir is the directory enumerated every iteration.
	DefaultTargetDir = "/var/log"

	// DefaultInterval is the fixed delay between scan iterations.
	DefaultInterval = 10 * time.Second

	// DefaultReadChunk is the upper bound on a single sample read.
	DefaultReadChunk = 1024

	// DefaultVerboseEntries caps the per-entry listing per iteration.
	DefaultVerboseEntries = 5

	// DefaultMaxPathLen bounds constructed entry paths.
	DefaultMaxPathLen = 4096
)

// defaultSampleFiles are typical log files the prober attempts bounded
// reads from. Their presence varies by distribution; absence is expected.
var defaultSampleFiles = []string{
	"/var/log/messages",
	"/var/log/secure",
	"/var/log/maillog",
	"/var/log/cron",
	"/var/log/boot.log",
	"/var/log/dmesg",
	"/var/log/dnf.log",
	"/var/log/audit/audit.log",
	"/var/log/lastlog",
	"/var/log/wtmp",
}

// Config holds the probe parameters. It is constructed once at process
// start and never mutated afterwards.
type Config struct {
	// TargetDir is the directory enumerated each iteration.
	TargetDir string

	// SampleFiles is the fixed ordered list of candidate read targets.
	SampleFiles []string

	// Interval is the sleep between iterations.
	Interval time.Duration

	// ReadChunk is the maximum bytes read from each sample file.
	ReadChunk int

	// VerboseEntries is the number of classified entries listed per
	// iteration. Entries beyond the cap are still probed and counted.
	VerboseEntries int

	// MaxPathLen bounds joined entry paths.
	MaxPathLen int
}

// DefaultConfig returns the compiled-in probe configuration.
func DefaultConfig() Config {
	files := make([]string, len(defaultSampleFiles))
	copy(files, defaultSampleFiles)
	return Config{
		TargetDir:      DefaultTargetDir,
		SampleFiles:    files,
		Interval:       DefaultInterval,
		ReadChunk:      DefaultReadChunk,
		VerboseEntries: DefaultVerboseEntries,
		MaxPathLen:     DefaultMaxPathLen,
	}
}
