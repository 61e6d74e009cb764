package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/Alia5/pawd/apitypes"
	"github.com/Alia5/pawd/internal/server/control"
	"github.com/Alia5/pawd/motion"
)

// LayerSetter is a layer source that accepts updates over the API.
type LayerSetter interface {
	motion.LayerProvider
	Set(layer int)
}

// LayerSet returns a handler that sets the active layer. It answers 409
// when the daemon reads layers from a source that cannot be set.
func LayerSet(p motion.LayerProvider) control.HandlerFunc {
	return func(req *control.Request, res *control.Response, logger *slog.Logger) error {
		s, ok := p.(LayerSetter)
		if !ok {
			return control.ErrConflict("layer source is not settable")
		}
		n, err := strconv.Atoi(req.Payload)
		if err != nil {
			return control.ErrBadRequest(fmt.Sprintf("invalid layer: %v", err))
		}
		s.Set(n)
		logger.Debug("Layer set", "layer", n)
		return layerJSON(res, s.HighestActiveLayer())
	}
}

// LayerGet returns a handler reporting the active layer.
func LayerGet(p motion.LayerProvider) control.HandlerFunc {
	return func(req *control.Request, res *control.Response, logger *slog.Logger) error {
		if p == nil {
			return control.ErrNotFound("no layer source configured")
		}
		return layerJSON(res, p.HighestActiveLayer())
	}
}

func layerJSON(res *control.Response, layer int) error {
	b, err := json.Marshal(apitypes.LayerResponse{Layer: layer})
	if err != nil {
		return control.ErrInternal(fmt.Sprintf("failed to marshal response: %v", err))
	}
	res.JSON = string(b)
	return nil
}
