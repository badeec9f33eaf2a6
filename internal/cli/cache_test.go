package cli

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestCachePath(t *testing.T) {
	out, _, err := runCLI(t, "", "cache", "path")
	if err != nil {
		t.Fatalf("cache path error = %v", err)
	}
	dir := strings.TrimSpace(out)
	if filepath.Base(dir) != appName {
		t.Errorf("cache path = %q, should end with %q", dir, appName)
	}
}

func TestCacheClear(t *testing.T) {
	cacheHome := t.TempDir()
	input := writeSample(t)

	run := func(args ...string) string {
		t.Helper()
		_, status, err := runCLI(t, "", args...)
		if err != nil {
			t.Fatalf("%v error = %v", args, err)
		}
		return status
	}

	t.Setenv("XDG_CACHE_HOME", cacheHome)
	run("render", input, "-o", filepath.Join(t.TempDir(), "out.mmd"))
	if status := run("cache", "clear"); !strings.Contains(status, "Cleared 2 cached entries") {
		t.Errorf("status = %q", status)
	}
	if status := run("cache", "clear"); !strings.Contains(status, "Cache is empty") {
		t.Errorf("status = %q", status)
	}
}
