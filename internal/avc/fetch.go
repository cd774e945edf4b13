package avc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rushigerrard8/selinux-policy-auditor/internal/execx"
)

// Fetch retrieves historical AVC records through ausearch. A zero since
// time fetches everything the audit log still holds.
func Fetch(ctx context.Context, since time.Time) ([]Record, error) {
	args := []string{"-m", "avc", "--raw"}
	if !since.IsZero() {
		args = append(args, "-ts", since.Format("01/02/2006"), since.Format("15:04:05"))
	}

	res, err := execx.Run(ctx, "ausearch", args...)
	if err != nil {
		if errors.Is(err, execx.ErrNotFound) {
			return nil, fmt.Errorf("ausearch not found; install the audit package: %w", err)
		}
		// ausearch exits non-zero when nothing matched.
		if strings.Contains(res.Stderr, "no matches") || strings.Contains(res.Stdout, "no matches") {
			return nil, nil
		}
		return nil, fmt.Errorf("ausearch failed: %w", err)
	}

	return ParseAll(strings.NewReader(res.Stdout))
}
