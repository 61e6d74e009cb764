package handler

import (
	"github.com/Alia5/pawd/internal/server/control"
	"github.com/Alia5/pawd/motion"
)

// Register wires every control route.
func Register(r *control.Router, version string, reg *motion.Registry, layers motion.LayerProvider) {
	r.Register("ping", Ping(version))
	r.Register("device/list", DeviceList(reg))
	r.Register("device/{name}/status", DeviceStatus(reg))
	r.Register("device/{name}/toggle", DeviceToggle(reg))
	r.Register("layer/set", LayerSet(layers))
	r.Register("layer/get", LayerGet(layers))
}
