package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Alia5/pawd/apiclient"
)

// ClientConfig addresses a running daemon's control API.
type ClientConfig struct {
	Addr     string `help:"Control API address" default:"localhost:3250" env:"PAWD_CONTROL_ADDR"`
	Password string `help:"Control API password" default:"" env:"PAWD_CONTROL_PASSWORD"`
}

func (c ClientConfig) client() *apiclient.Client {
	if c.Password != "" {
		return apiclient.NewWithPassword(c.Addr, c.Password)
	}
	return apiclient.New(c.Addr)
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// Toggle applies a mode toggle on a running daemon.
type Toggle struct {
	Control ClientConfig `embed:"" prefix:"control."`
	Device  string       `arg:"" help:"Device name"`
	Name    string       `arg:"" name:"toggle" help:"axis, precision, direction or 0-2"`
}

func (t *Toggle) Run() error { return t.run(os.Stdout) }

func (t *Toggle) run(w io.Writer) error {
	res, err := t.Control.client().Toggle(t.Device, t.Name)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s: %s\n", res.Device, res.Mode)
	return err
}

// Status prints device snapshots; without a name it covers every device.
type Status struct {
	Control ClientConfig `embed:"" prefix:"control."`
	Device  string       `arg:"" optional:"" help:"Device name"`
}

func (s *Status) Run() error { return s.run(os.Stdout) }

func (s *Status) run(w io.Writer) error {
	c := s.Control.client()
	names := []string{s.Device}
	if s.Device == "" {
		list, err := c.Devices()
		if err != nil {
			return err
		}
		names = list.Devices
	}
	for _, n := range names {
		st, err := c.Status(n)
		if err != nil {
			return err
		}
		if err := printJSON(w, st); err != nil {
			return err
		}
	}
	return nil
}

// LayerCommand groups the layer subcommands.
type LayerCommand struct {
	Set LayerSet `cmd:"" help:"Set the active layer"`
	Get LayerGet `cmd:"" help:"Print the active layer"`
}

type LayerSet struct {
	Control ClientConfig `embed:"" prefix:"control."`
	Layer   int          `arg:"" help:"Layer id"`
}

func (l *LayerSet) Run() error { return l.run(os.Stdout) }

func (l *LayerSet) run(w io.Writer) error {
	res, err := l.Control.client().SetLayer(l.Layer)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, res.Layer)
	return err
}

type LayerGet struct {
	Control ClientConfig `embed:"" prefix:"control."`
}

func (l *LayerGet) Run() error { return l.run(os.Stdout) }

func (l *LayerGet) run(w io.Writer) error {
	res, err := l.Control.client().Layer()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, res.Layer)
	return err
}
