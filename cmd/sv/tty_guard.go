package main

import (
	"os"
	"strings"
)

// init runs before Bubble Tea or Lipgloss touch the terminal.
//
// Termenv's background-colour detection writes OSC/DSR queries to stdout.
// In a real terminal they are invisible, but they corrupt output that is
// piped into another program, such as sv rank --json. Setting CI=1 early
// makes termenv skip the probe. Only the TUI commands keep it.
func init() {
	if os.Getenv("CI") != "" {
		return
	}
	if !shouldSuppressTTYQueries(os.Args[1:], os.Getenv("SV_TEST_MODE") != "") {
		return
	}
	_ = os.Setenv("CI", "1")
}

// nonInteractive are the subcommands that print and exit.
var nonInteractive = map[string]bool{
	"rank":       true,
	"get":        true,
	"tree":       true,
	"export":     true,
	"config":     true,
	"version":    true,
	"help":       true,
	"completion": true,
}

func shouldSuppressTTYQueries(args []string, envTest bool) bool {
	if envTest {
		return true
	}
	for _, arg := range args {
		switch arg {
		case "--version", "-v", "--help", "-h", "--json":
			return true
		}
		if !strings.HasPrefix(arg, "-") && nonInteractive[arg] {
			return true
		}
	}
	return false
}
