//go:build linux

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

const serviceName = "pawd.service"

var (
	unitDir   = "/etc/systemd/system"
	systemctl = runSystemctl
)

// serviceUnit is the systemd unit that runs the daemon.
type serviceUnit struct {
	Exe  string
	Args []string
}

func (u serviceUnit) render() []byte {
	var b bytes.Buffer
	b.WriteString("[Unit]\nDescription=pawd PAW3222 motion daemon\nAfter=systemd-udevd.service\n\n")
	b.WriteString("[Service]\nType=simple\n")
	b.WriteString("ExecStart=" + strconv.Quote(u.Exe) + " run")
	for _, a := range u.Args {
		b.WriteString(" " + strconv.Quote(a))
	}
	b.WriteString("\nWorkingDirectory=" + filepath.Dir(u.Exe) + "\n")
	b.WriteString("RuntimeDirectory=pawd\nRestart=on-failure\n\n")
	b.WriteString("[Install]\nWantedBy=multi-user.target\n")
	return b.Bytes()
}

func install(logger *slog.Logger, args []string) error {
	exe, err := currentExecutable()
	if err != nil {
		return err
	}
	path := filepath.Join(unitDir, serviceName)
	unit := serviceUnit{Exe: exe, Args: args}.render()

	existing, err := os.ReadFile(path)
	switch {
	case err == nil && bytes.Equal(existing, unit):
		logger.Debug("Service unit unchanged", "path", path)
	case err == nil || errors.Is(err, os.ErrNotExist):
		if err := os.WriteFile(path, unit, 0o644); err != nil {
			return fmt.Errorf("write unit: %w", err)
		}
		if err := systemctl("daemon-reload"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("read unit: %w", err)
	}

	if err := systemctl("enable", serviceName); err != nil {
		return err
	}
	if err := systemctl("restart", serviceName); err != nil {
		return err
	}
	logger.Info("pawd systemd service installed", "path", path, "exe", exe)
	return nil
}

func uninstall(logger *slog.Logger) error {
	path := filepath.Join(unitDir, serviceName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		logger.Info("pawd systemd service not installed", "path", path)
		return nil
	}

	errs := []error{
		systemctl("disable", "--now", serviceName),
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		errs = append(errs, err)
	}
	errs = append(errs, systemctl("daemon-reload"))
	if err := errors.Join(errs...); err != nil {
		return err
	}
	logger.Info("pawd systemd service removed", "path", path)
	return nil
}

func runSystemctl(args ...string) error {
	out, err := exec.Command("systemctl", args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("systemctl %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return nil
}
