package handler

import (
	"encoding/json"
	"log/slog"

	"github.com/Alia5/pawd/apitypes"
	"github.com/Alia5/pawd/internal/server/control"
	"github.com/Alia5/pawd/motion"
)

// DeviceList returns a handler that lists registered devices.
// Error logging is centralized in the control server.
func DeviceList(reg *motion.Registry) control.HandlerFunc {
	return func(req *control.Request, res *control.Response, logger *slog.Logger) error {
		b, err := json.Marshal(apitypes.DeviceListResponse{Devices: reg.Names()})
		if err != nil {
			return err
		}
		res.JSON = string(b)
		return nil
	}
}
