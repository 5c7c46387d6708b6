package preflight

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"encodeflow/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	for _, access := range []Access{AccessRead, AccessWrite} {
		result := CheckDirectoryAccess("test", dir, access)
		if !result.Passed {
			t.Fatalf("expected %s pass for temp dir, got: %s", access, result.Detail)
		}
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"), AccessRead)
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckDirectoryAccess("test", f, AccessRead); result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckDirectoryAccess_Unconfigured(t *testing.T) {
	if result := CheckDirectoryAccess("test", "", AccessWrite); result.Passed || result.Detail != "not configured" {
		t.Fatalf("unexpected result %#v", result)
	}
}

func TestRunAllReportsDirectoriesAndEncoder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	results := RunAll(cfg)
	if len(results) != 4 {
		t.Fatalf("expected four results, got %#v", results)
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("expected all checks to pass, got %#v", failed)
	}
	if results[3].Name != "Encoder" || results[3].Detail != cfg.Encoder.Binary {
		t.Fatalf("unexpected encoder result %#v", results[3])
	}

	cfg.Encoder.Binary = filepath.Join(t.TempDir(), "missing")
	cfg.Paths.OutputDir = filepath.Join(t.TempDir(), "absent")
	failed := Failed(RunAll(cfg))
	if len(failed) != 2 {
		t.Fatalf("expected output dir and encoder to fail, got %#v", failed)
	}
}

func TestRunAllWithoutConfig(t *testing.T) {
	if RunAll(nil) != nil {
		t.Fatal("expected nil results without config")
	}
}
