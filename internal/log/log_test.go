package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitFile(t *testing.T) {
	if err := InitFile(false, FileOptions{}); err == nil {
		t.Error("expected an error for an empty path")
	}

	path := filepath.Join(t.TempDir(), "transitsearch.log")
	if err := InitFile(true, FileOptions{Path: path, MaxSizeMB: 1}); err != nil {
		t.Fatalf("InitFile: %v", err)
	}
	t.Cleanup(func() { log, baseLogger = nil, nil })

	Infow("analysis complete", "period", 0.94)
	Debugf("debug line %d", 7)
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	for _, want := range []string{`"msg":"analysis complete"`, `"period":0.94`, "debug line 7"} {
		if !strings.Contains(out, want) {
			t.Errorf("log file missing %s:\n%s", want, out)
		}
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatal("OrNop(nil) returned nil")
	}
	l := GetSugaredLogger()
	if OrNop(l) != l {
		t.Error("OrNop replaced a non-nil logger")
	}
}
