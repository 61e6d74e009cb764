package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Alia5/pawd/apitypes"
	"github.com/Alia5/pawd/internal/server/control"
	"github.com/Alia5/pawd/motion"
)

// DeviceStatus returns a handler reporting a snapshot of one device.
func DeviceStatus(reg *motion.Registry) control.HandlerFunc {
	return func(req *control.Request, res *control.Response, logger *slog.Logger) error {
		name, ok := req.Params["name"]
		if !ok || name == "" {
			return control.ErrBadRequest("missing device name")
		}
		d, err := reg.Get(name)
		if err != nil {
			return err
		}
		b, err := json.Marshal(StatusResponse(d.Status()))
		if err != nil {
			return control.ErrInternal(fmt.Sprintf("failed to marshal response: %v", err))
		}
		res.JSON = string(b)
		return nil
	}
}

// StatusResponse converts a device snapshot to its wire form.
func StatusResponse(s motion.Status) apitypes.DeviceStatus {
	return apitypes.DeviceStatus{
		Name:            s.Name,
		Mode:            s.Mode.String(),
		Resolved:        s.Resolved.String(),
		Phase:           s.Phase.String(),
		CPI:             s.CPI,
		Idle:            s.Idle,
		Ready:           s.Ready,
		LastActivity:    s.LastActivity,
		Cycles:          s.Cycles,
		Reports:         s.Reports,
		TransportErrors: s.TransportErrors,
	}
}
