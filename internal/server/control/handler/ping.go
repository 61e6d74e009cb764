package handler

import (
	"encoding/json"
	"log/slog"

	"github.com/Alia5/pawd/apitypes"
	"github.com/Alia5/pawd/internal/server/control"
)

// Ping answers with the daemon identity so clients can probe liveness.
func Ping(version string) control.HandlerFunc {
	return func(req *control.Request, res *control.Response, logger *slog.Logger) error {
		b, err := json.Marshal(apitypes.PingResponse{Server: "pawd", Version: version})
		if err != nil {
			return err
		}
		res.JSON = string(b)
		return nil
	}
}
