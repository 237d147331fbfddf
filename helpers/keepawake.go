package helpers

import (
	"os/exec"
	"runtime"

	"sjsage522/winedealworker/logger"
)

// KeepAwake prevents the host from sleeping while the watch loop runs.
// Best effort: an unsupported platform or a failed command is logged and
// ignored, never fatal.
type KeepAwake struct {
	cmd *exec.Cmd
}

// NewKeepAwake creates an inactive KeepAwake.
func NewKeepAwake() *KeepAwake {
	return &KeepAwake{}
}

// Start enables sleep prevention for the current platform.
func (k *KeepAwake) Start() {
	switch runtime.GOOS {
	case "darwin":
		// Prevent display sleep and user idle for 24 hours.
		cmd := exec.Command("caffeinate", "-d", "-u", "-t", "86400")
		if err := cmd.Start(); err != nil {
			logger.Warn("Failed to start caffeinate: %v", err)
			return
		}
		k.cmd = cmd
		logger.Info("Sleep prevention started (caffeinate)")
	case "linux":
		cmd := exec.Command("systemd-inhibit", "--what=sleep:idle", "--why=deal watch", "sleep", "86400")
		if err := cmd.Start(); err != nil {
			logger.Warn("Failed to start systemd-inhibit: %v", err)
			return
		}
		k.cmd = cmd
		logger.Info("Sleep prevention started (systemd-inhibit)")
	default:
		logger.Warn("Sleep prevention not supported on %s", runtime.GOOS)
	}
}

// Stop releases the sleep inhibitor if one is active.
func (k *KeepAwake) Stop() {
	if k.cmd == nil || k.cmd.Process == nil {
		return
	}
	if err := k.cmd.Process.Kill(); err != nil {
		logger.Warn("Error stopping sleep prevention: %v", err)
	}
	k.cmd = nil
	logger.Info("Sleep prevention stopped")
}
