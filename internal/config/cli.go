// Package config declares the pawd command line.
package config

import "github.com/Alia5/pawd/internal/cmd"

// CLI is the kong root. Flags may also come from JSON, YAML or TOML files.
type CLI struct {
	Config string        `help:"Configuration file" type:"path" env:"PAWD_CONFIG"`
	Log    cmd.LogConfig `embed:"" prefix:"log."`

	Run       cmd.Run           `cmd:"" help:"Run the motion daemon"`
	Toggle    cmd.Toggle        `cmd:"" help:"Apply a mode toggle on a running daemon"`
	Status    cmd.Status        `cmd:"" help:"Show device status"`
	Layer     cmd.LayerCommand  `cmd:"" help:"Read or set the active layer"`
	ConfigCmd cmd.ConfigCommand `cmd:"" name:"config" help:"Configuration helpers"`
	Install   cmd.Install       `cmd:"" help:"Install pawd as a systemd service"`
	Uninstall cmd.Uninstall     `cmd:"" help:"Remove the pawd systemd service"`
}
