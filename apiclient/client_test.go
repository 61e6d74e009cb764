package apiclient_test

import (
	"context"
	"errors"
	"testing"

	apiclient "github.com/Alia5/pawd/apiclient"
	apitypes "github.com/Alia5/pawd/apitypes"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClient constructs a client backed by a simple in-memory responder.
// responses maps path patterns to raw JSON payloads.
// If err is non-nil, every request returns that error, simulating dial failures.
func testClient(responses map[string]string, err error) *apiclient.Client {
	return apiclient.WithTransport(apiclient.NewMockTransport(func(path string, _ any, _ map[string]string) (string, error) {
		if err != nil {
			return "", err
		}
		if out, ok := responses[path]; ok {
			return out, nil
		}
		return "", nil
	}))
}

func TestHighLevelClient(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(responses map[string]string) (err error)
		call       func(c *apiclient.Client) (any, error)
		wantErr    string
		assertFunc func(t *testing.T, got any)
	}{
		{
			name: "ping",
			setup: func(responses map[string]string) error {
				responses["ping"] = `{"server":"pawd","version":"dev"}`
				return nil
			},
			call: func(c *apiclient.Client) (any, error) { return c.Ping() },
			assertFunc: func(t *testing.T, got any) {
				assert.Equal(t, &apitypes.PingResponse{Server: "pawd", Version: "dev"}, got)
			},
		},
		{
			name: "devices",
			setup: func(responses map[string]string) error {
				responses["device/list"] = `{"devices":["left","right"]}`
				return nil
			},
			call: func(c *apiclient.Client) (any, error) { return c.Devices() },
			assertFunc: func(t *testing.T, got any) {
				assert.Equal(t, []string{"left", "right"}, got.(*apitypes.DeviceListResponse).Devices)
			},
		},
		{
			name: "status",
			setup: func(responses map[string]string) error {
				responses["device/{name}/status"] = `{"name":"trackball","mode":"snipe","phase":"armed","cpi":608}`
				return nil
			},
			call: func(c *apiclient.Client) (any, error) { return c.Status("trackball") },
			assertFunc: func(t *testing.T, got any) {
				s := got.(*apitypes.DeviceStatus)
				assert.Equal(t, "snipe", s.Mode)
				assert.Equal(t, uint16(608), s.CPI)
			},
		},
		{
			name: "toggle not applicable",
			setup: func(responses map[string]string) error {
				responses["device/{name}/toggle"] = `{"status":409,"title":"Conflict","detail":"toggle not applicable in current mode"}`
				return nil
			},
			call:    func(c *apiclient.Client) (any, error) { return c.Toggle("trackball", "direction") },
			wantErr: "409 Conflict",
		},
		{
			name: "set layer",
			setup: func(responses map[string]string) error {
				responses["layer/set"] = `{"layer":3}`
				return nil
			},
			call: func(c *apiclient.Client) (any, error) { return c.SetLayer(3) },
			assertFunc: func(t *testing.T, got any) {
				assert.Equal(t, 3, got.(*apitypes.LayerResponse).Layer)
			},
		},
		{
			name:    "transport failure",
			setup:   func(responses map[string]string) error { return errors.New("dial fail") },
			call:    func(c *apiclient.Client) (any, error) { return c.Devices() },
			wantErr: "dial fail",
		},
		{
			name:    "blank response error",
			setup:   func(responses map[string]string) error { return nil },
			call:    func(c *apiclient.Client) (any, error) { return c.Layer() },
			wantErr: "empty response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			responses := map[string]string{}
			errInject := error(nil)
			if tt.setup != nil {
				if e := tt.setup(responses); e != nil {
					errInject = e
				}
			}
			c := testClient(responses, errInject)
			got, err := tt.call(c)
			if tt.wantErr != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			assert.NoError(t, err)
			if tt.assertFunc != nil {
				tt.assertFunc(t, got)
			}
		})
	}
}

func TestProblemIsTyped(t *testing.T) {
	c := testClient(map[string]string{
		"device/{name}/status": `{"status":404,"title":"Not Found","detail":"unknown device: x"}`,
	}, nil)
	_, err := c.Status("x")
	var apiErr *apitypes.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
}

func TestContextCancellation(t *testing.T) {
	c := apiclient.WithTransport(apiclient.NewTransport("127.0.0.1:9")) // address irrelevant due to early cancel
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.DevicesCtx(ctx)
	assert.Error(t, err)
}
