// Package ttyguard keeps terminal capability probes out of machine-readable
// output. Import it for side effects before any lipgloss or bubbletea code
// runs.
package ttyguard

import (
	"os"
	"strings"
)

// init runs before lipgloss and termenv query the terminal.
//
// Background-colour detection writes OSC/DSR sequences to stdout, which
// corrupts --robot-view JSON when stdout is captured by a PTY. Termenv skips
// probing when CI is set.
func init() {
	if os.Getenv("CI") != "" {
		return
	}
	if !shouldSuppressTTYQueries(os.Args[1:], os.Getenv("TT_ROBOT") == "1", os.Getenv("TT_TEST_MODE") != "") {
		return
	}
	_ = os.Setenv("CI", "1")
}

func shouldSuppressTTYQueries(args []string, envRobot, envTest bool) bool {
	if envRobot || envTest {
		return true
	}
	for _, arg := range args {
		name, _, _ := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if !strings.HasPrefix(arg, "-") {
			continue
		}
		switch name {
		case "robot-view", "export-md", "version", "help", "h":
			return true
		}
	}
	return false
}
