package main_test

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
)

var svBinaryPath string
var svBinaryDir string

func TestMain(m *testing.M) {
	// Keep termenv from probing the terminal and the developer's config out.
	os.Setenv("SV_TEST_MODE", "1")
	os.Setenv("SV_DEBUG", "")

	if err := buildSvOnce(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build sv binary: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	if svBinaryDir != "" {
		_ = os.RemoveAll(svBinaryDir)
	}
	os.Exit(code)
}

func buildSvOnce() error {
	tempDir, err := os.MkdirTemp("", "sv-e2e-build-*")
	if err != nil {
		return err
	}
	svBinaryDir = tempDir

	binName := "sv"
	if runtime.GOOS == "windows" {
		binName += ".exe"
	}
	binPath := filepath.Join(tempDir, binName)

	cmd := exec.Command("go", "build", "-o", binPath, "../../cmd/sv")
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("go build failed: %v\n%s", err, out)
	}

	svBinaryPath = binPath
	return nil
}

// runSv runs the pre-built binary with an isolated config directory and
// returns stdout and stderr.
func runSv(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	if svBinaryPath == "" {
		t.Fatal("sv binary not built")
	}

	cmd := exec.Command(svBinaryPath, args...)
	cmd.Env = append(os.Environ(),
		"XDG_CONFIG_HOME="+t.TempDir(),
		"XDG_STATE_HOME="+t.TempDir(),
		"NO_COLOR=1",
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}
