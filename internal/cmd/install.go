package cmd

import (
	"log/slog"
	"os"
	"path/filepath"
)

// Install registers pawd as a system service that runs the daemon.
type Install struct {
	Args []string `arg:"" optional:"" passthrough:"" help:"Extra arguments for the run command"`
}

func (i *Install) Run(logger *slog.Logger) error { return install(logger, i.Args) }

// Uninstall removes the service installed by Install.
type Uninstall struct{}

func (u *Uninstall) Run(logger *slog.Logger) error { return uninstall(logger) }

func currentExecutable() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(exe)
}
