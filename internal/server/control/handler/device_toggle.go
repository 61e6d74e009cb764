package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Alia5/pawd/apitypes"
	"github.com/Alia5/pawd/internal/server/control"
	"github.com/Alia5/pawd/motion"
)

// DeviceToggle returns a handler applying a mode toggle to one device. The
// payload names the toggle (axis, precision, direction) or its number.
func DeviceToggle(reg *motion.Registry) control.HandlerFunc {
	return func(req *control.Request, res *control.Response, logger *slog.Logger) error {
		name := req.Params["name"]
		if name == "" {
			return control.ErrBadRequest("missing device name")
		}
		if req.Payload == "" {
			return control.ErrBadRequest("missing toggle")
		}
		t, err := motion.ParseToggle(req.Payload)
		if err != nil {
			return control.ErrBadRequest(err.Error())
		}
		mode, err := reg.Toggle(name, t)
		if err != nil {
			return err
		}
		logger.Info("Mode toggled", "device", name, "toggle", t.String(), "mode", mode.String())
		b, err := json.Marshal(apitypes.ToggleResponse{Device: name, Toggle: t.String(), Mode: mode.String()})
		if err != nil {
			return control.ErrInternal(fmt.Sprintf("failed to marshal response: %v", err))
		}
		res.JSON = string(b)
		return nil
	}
}
