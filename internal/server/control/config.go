package control

import "time"

// ServerConfig configures the control API listener.
type ServerConfig struct {
	Addr              string        `help:"Control API listen address; empty disables the API" default:"localhost:3250" env:"PAWD_CONTROL_ADDR"`
	Password          string        `help:"Require clients to authenticate with this password" default:"" env:"PAWD_CONTROL_PASSWORD"`
	ConnectionTimeout time.Duration `help:"Per-connection read and write deadline" default:"5s" env:"PAWD_CONTROL_TIMEOUT"`
}
