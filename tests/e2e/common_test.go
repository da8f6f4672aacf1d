package e2e

import (
	"os/exec"
	"path/filepath"
	"testing"
)

// buildBinary builds the annotate binary in dir and returns its path.
func buildBinary(t *testing.T, dir string) string {
	t.Helper()
	bin := filepath.Join(dir, "annotate.exe")
	buildCmd := exec.Command("go", "build", "-o", bin, "../../cmd/annotate")
	if out, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build annotate: %v\n%s", err, string(out))
	}
	return bin
}

// run executes the binary in dir and returns its stdout.
func run(t *testing.T, bin, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(bin, args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if ee, ok := err.(*exec.ExitError); ok {
		t.Logf("stderr: %s", ee.Stderr)
	}
	return string(out), err
}
