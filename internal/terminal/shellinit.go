package terminal

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"
)

// ShellKind names the shells shell-init injection supports.
type ShellKind int

const (
	ShellUnknown ShellKind = iota
	ShellBash
	ShellZsh
	ShellFish
)

// DetectShellKind classifies a shell path by its basename.
func DetectShellKind(shellPath string) ShellKind {
	switch base := lastPathElement(shellPath); base {
	case "fish":
		return ShellFish
	case "zsh":
		return ShellZsh
	case "bash":
		return ShellBash
	default:
		return ShellUnknown
	}
}

func lastPathElement(p string) string {
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[i+1:]
	}
	return p
}

// InitArgs returns extra argv the shell needs to source the host-binary
// integration at startup. Fish takes the injection as a flag directly;
// bash/zsh have no equivalent flag, so they get no extra args here and
// instead rely on AwaitShellReady polling /proc to confirm the shell
// itself (not some child) is in control of the PTY before the editor
// considers the panel usable.
func InitArgs(kind ShellKind, binPath string) []string {
	switch kind {
	case ShellFish:
		return []string{"--init-command", fmt.Sprintf("set -gx TOME_BIN %s", binPath)}
	default:
		return nil
	}
}

// AwaitShellReady polls /proc/<pid>/comm (Linux only) until the
// foreground process reports the expected shell binary name, or until
// maxAttempts is reached. It's a best-effort readiness check: on
// non-Linux platforms, or if /proc is unavailable, it returns true
// immediately rather than blocking the panel open indefinitely.
func AwaitShellReady(pid int, shellName string, maxAttempts int, interval time.Duration) bool {
	if runtime.GOOS != "linux" {
		return true
	}
	path := fmt.Sprintf("/proc/%d/comm", pid)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		b, err := os.ReadFile(path)
		if err != nil {
			return true
		}
		if strings.TrimSpace(string(b)) == shellName {
			return true
		}
		time.Sleep(interval)
	}
	return false
}
