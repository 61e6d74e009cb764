// Package apitypes holds the JSON shapes of the pawd control API.
package apitypes

import (
	"fmt"
	"time"
)

// ApiError represents an RFC 7807 (problem+json) error response.
type ApiError struct {
	// Status is the HTTP-style status code (e.g., 400, 404, 503)
	Status int `json:"status"`
	// Title is a short, human-readable summary of the problem type
	Title string `json:"title"`
	// Detail is a human-readable explanation specific to this occurrence
	Detail string `json:"detail"`
}

func (e ApiError) Error() string {
	if e.Status == 0 && e.Title == "" {
		return "unknown error"
	}
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Title, e.Detail)
	}
	return fmt.Sprintf("%d %s: %s", e.Status, e.Title, e.Detail)
}

// --

type PingResponse struct {
	Server  string `json:"server"`
	Version string `json:"version"`
}

type DeviceListResponse struct {
	Devices []string `json:"devices"`
}

type DeviceStatus struct {
	Name            string    `json:"name"`
	Mode            string    `json:"mode"`
	Resolved        string    `json:"resolved"`
	Phase           string    `json:"phase"`
	CPI             uint16    `json:"cpi"`
	Idle            bool      `json:"idle"`
	Ready           bool      `json:"ready"`
	LastActivity    time.Time `json:"lastActivity"`
	Cycles          uint64    `json:"cycles"`
	Reports         uint64    `json:"reports"`
	TransportErrors uint64    `json:"transportErrors"`
}

type ToggleResponse struct {
	Device string `json:"device"`
	Toggle string `json:"toggle"`
	Mode   string `json:"mode"`
}

type LayerResponse struct {
	Layer int `json:"layer"`
}
