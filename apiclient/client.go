package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	apitypes "github.com/Alia5/pawd/apitypes"
)

// Client provides a high-level interface to the pawd control API, handling
// request formatting, response parsing, and error handling.
type Client struct{ transport *Transport }

// New constructs a high-level API client using the internal low-level Transport.
// The addr parameter specifies the TCP address (host:port) of the control API.
func New(addr string) *Client { return &Client{transport: NewTransport(addr)} }

// NewWithPassword constructs a client that authenticates with the given password.
func NewWithPassword(addr, password string) *Client {
	return &Client{transport: NewTransportWithPassword(addr, password)}
}

// NewWithConfig constructs a client with custom transport timeouts.
func NewWithConfig(addr string, cfg *Config) *Client {
	return &Client{transport: NewTransportWithConfig(addr, cfg)}
}

// WithTransport constructs a Client using a custom Transport implementation.
// This is primarily useful for testing.
func WithTransport(t *Transport) *Client { return &Client{transport: t} }

// Ping returns the version and identity of the daemon.
func (c *Client) Ping() (*apitypes.PingResponse, error) {
	return c.PingCtx(context.Background())
}

// PingCtx is the context-aware version of Ping.
func (c *Client) PingCtx(ctx context.Context) (*apitypes.PingResponse, error) {
	const path = "ping"
	raw, err := c.transport.DoCtx(ctx, path, nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.PingResponse](raw)
}

// Devices lists the names of the running motion devices.
func (c *Client) Devices() (*apitypes.DeviceListResponse, error) {
	return c.DevicesCtx(context.Background())
}

func (c *Client) DevicesCtx(ctx context.Context) (*apitypes.DeviceListResponse, error) {
	const path = "device/list"
	raw, err := c.transport.DoCtx(ctx, path, nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.DeviceListResponse](raw)
}

// Status returns a snapshot of the named device.
func (c *Client) Status(name string) (*apitypes.DeviceStatus, error) {
	return c.StatusCtx(context.Background(), name)
}

func (c *Client) StatusCtx(ctx context.Context, name string) (*apitypes.DeviceStatus, error) {
	const path = "device/{name}/status"
	raw, err := c.transport.DoCtx(ctx, path, nil, map[string]string{"name": name})
	if err != nil {
		return nil, err
	}
	return parse[apitypes.DeviceStatus](raw)
}

// Toggle applies a mode toggle ("axis", "precision", "direction" or 0-2)
// to the named device and returns the resulting mode.
func (c *Client) Toggle(name, toggle string) (*apitypes.ToggleResponse, error) {
	return c.ToggleCtx(context.Background(), name, toggle)
}

func (c *Client) ToggleCtx(ctx context.Context, name, toggle string) (*apitypes.ToggleResponse, error) {
	const path = "device/{name}/toggle"
	raw, err := c.transport.DoCtx(ctx, path, toggle, map[string]string{"name": name})
	if err != nil {
		return nil, err
	}
	return parse[apitypes.ToggleResponse](raw)
}

// SetLayer sets the active layer when the daemon uses the control layer source.
func (c *Client) SetLayer(layer int) (*apitypes.LayerResponse, error) {
	return c.SetLayerCtx(context.Background(), layer)
}

func (c *Client) SetLayerCtx(ctx context.Context, layer int) (*apitypes.LayerResponse, error) {
	const path = "layer/set"
	raw, err := c.transport.DoCtx(ctx, path, strconv.Itoa(layer), nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.LayerResponse](raw)
}

// Layer returns the active layer.
func (c *Client) Layer() (*apitypes.LayerResponse, error) {
	return c.LayerCtx(context.Background())
}

func (c *Client) LayerCtx(ctx context.Context) (*apitypes.LayerResponse, error) {
	const path = "layer/get"
	raw, err := c.transport.DoCtx(ctx, path, nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.LayerResponse](raw)
}

// Parse decodes a response line into T, returning *apitypes.ApiError when
// the line is a problem document.
func Parse[T any](data string) (*T, error) { return parse[T](data) }

func parse[T any](data string) (*T, error) {
	if data == "" {
		return nil, errors.New("empty response")
	}
	var problem apitypes.ApiError
	if err := json.Unmarshal([]byte(data), &problem); err == nil && (problem.Status != 0 || problem.Title != "") {
		return nil, &problem
	}
	var out T
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &out, nil
}
