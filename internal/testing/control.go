package testing

import (
	"log/slog"
	"testing"

	"github.com/Alia5/pawd/internal/server/control"
)

// StartControlServer starts a control API server on a free port and calls
// register so the caller can add the routes under test. The server is
// closed when the test ends.
func StartControlServer(t *testing.T, password string, register func(r *control.Router)) string {
	t.Helper()
	srv, err := control.New(control.ServerConfig{Addr: "127.0.0.1:0", Password: password}, slog.Default())
	if err != nil {
		t.Fatalf("control server: %v", err)
	}
	if register != nil {
		register(srv.Router())
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("control start failed: %v", err)
	}
	t.Cleanup(srv.Close)
	return srv.Addr()
}
