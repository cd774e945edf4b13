package pathutil

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"":              "",
		"/var/log/":     "/var/log",
		"/var//log":     "/var/log",
		"/var/log/../":  "/var",
		"relative/path": "relative/path",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestJoinBounded(t *testing.T) {
	got, err := JoinBounded("/var/log", "messages", 4096)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if got != "/var/log/messages" {
		t.Fatalf("unexpected join result: %q", got)
	}

	long := strings.Repeat("x", 100)
	if _, err := JoinBounded("/var/log", long, 32); err == nil {
		t.Fatalf("expected error for over-long path")
	}
}
