package avc

import (
	"reflect"
	"strings"
	"testing"
)

const deniedLine = `type=AVC msg=audit(1363289005.532:184): avc:  denied  { read write } for  pid=29199 comm="httpd" name="error_log" dev="dm-0" ino=8708 scontext=system_u:system_r:httpd_t:s0 tcontext=system_u:object_r:httpd_log_t:s0 tclass=file permissive=0`

const grantedLine = `type=AVC msg=audit(1363289010.100:185): avc:  granted  { search } for  pid=29199 comm="httpd" path="/var/log/httpd" scontext=system_u:system_r:httpd_t:s0 tcontext=system_u:object_r:httpd_log_t:s0 tclass=dir permissive=1`

func TestParseRecordDenied(t *testing.T) {
	rec, ok := ParseRecord(deniedLine)
	if !ok {
		t.Fatalf("expected record")
	}
	if rec.Decision != Denied {
		t.Fatalf("decision = %q", rec.Decision)
	}
	if !reflect.DeepEqual(rec.Permissions, []string{"read", "write"}) {
		t.Fatalf("permissions = %v", rec.Permissions)
	}
	if rec.PID != 29199 || rec.Comm != "httpd" {
		t.Fatalf("pid/comm = %d/%q", rec.PID, rec.Comm)
	}
	if rec.Path != "error_log" {
		t.Fatalf("path = %q", rec.Path)
	}
	if rec.TClass != "file" || rec.Permissive {
		t.Fatalf("tclass/permissive = %q/%v", rec.TClass, rec.Permissive)
	}
	if rec.SourceType() != "httpd_t" || rec.TargetType() != "httpd_log_t" {
		t.Fatalf("types = %q -> %q", rec.SourceType(), rec.TargetType())
	}
	if rec.Time.Unix() != 1363289005 {
		t.Fatalf("time = %v", rec.Time)
	}
}

func TestParseRecordGranted(t *testing.T) {
	rec, ok := ParseRecord(grantedLine)
	if !ok {
		t.Fatalf("expected record")
	}
	if rec.Decision != Granted || !rec.Permissive {
		t.Fatalf("decision/permissive = %q/%v", rec.Decision, rec.Permissive)
	}
	if rec.Path != "/var/log/httpd" {
		t.Fatalf("path = %q", rec.Path)
	}
}

func TestParseRecordRejectsOtherTypes(t *testing.T) {
	lines := []string{
		"",
		`type=SYSCALL msg=audit(1363289005.532:184): arch=c000003e syscall=2`,
		`type=USER_AUTH msg=audit(1363289005.532:190): pid=1 uid=0`,
	}
	for _, line := range lines {
		if _, ok := ParseRecord(line); ok {
			t.Errorf("unexpectedly parsed %q", line)
		}
	}
}

func TestParseRecordDecodesHexMask(t *testing.T) {
	line := `type=AVC msg=audit(1363289020.000:186): avc:  denied  { 0x6 } for  pid=100 comm="prober" name="messages" scontext=system_u:system_r:prober_t:s0 tcontext=system_u:object_r:var_log_t:s0 tclass=file permissive=0`
	rec, ok := ParseRecord(line)
	if !ok {
		t.Fatalf("expected record")
	}
	if !reflect.DeepEqual(rec.Permissions, []string{"read", "write"}) {
		t.Fatalf("permissions = %v", rec.Permissions)
	}
}

func TestParseAll(t *testing.T) {
	input := deniedLine + "\n" +
		"type=SYSCALL msg=audit(1.0:1): syscall=2\n" +
		grantedLine + "\n"
	records, err := ParseAll(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("parsed %d records, want 2", len(records))
	}
}
