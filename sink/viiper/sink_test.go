package viiper_test

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/pawd/internal/auth"
	"github.com/Alia5/pawd/motion"
	"github.com/Alia5/pawd/sink/viiper"
)

// fakeViiper answers the management requests the sink issues and records
// the reports received on the device stream.
type fakeViiper struct {
	t        *testing.T
	ln       net.Listener
	key      []byte
	buses    []uint32
	mu       sync.Mutex
	requests []string
	reports  []viiper.Report
}

func startFake(t *testing.T, password string, buses ...uint32) *fakeViiper {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	f := &fakeViiper{t: t, ln: ln, buses: buses}
	if password != "" {
		f.key, err = auth.Key(password)
		require.NoError(t, err)
	}
	go f.serve()
	t.Cleanup(func() { _ = ln.Close() })
	return f
}

func (f *fakeViiper) serve() {
	for {
		c, err := f.ln.Accept()
		if err != nil {
			return
		}
		go f.handle(c)
	}
}

func (f *fakeViiper) handle(raw net.Conn) {
	defer raw.Close()
	var conn net.Conn = raw
	r := bufio.NewReader(raw)
	if f.key != nil {
		sealed, err := auth.Server(r, raw, f.key)
		if err != nil {
			return
		}
		conn = sealed
		r = bufio.NewReader(sealed)
	}
	req, err := r.ReadString('\x00')
	if err != nil {
		return
	}
	req = strings.TrimSuffix(req, "\x00")
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	path, payload, _ := strings.Cut(req, " ")
	reply := func(v any) {
		b, _ := json.Marshal(v)
		_, _ = conn.Write(append(b, '\n'))
	}
	switch {
	case path == "bus/list":
		reply(map[string][]uint32{"buses": f.buses})
	case path == "bus/create":
		reply(map[string]uint32{"busId": 1})
	case strings.HasSuffix(path, "/add"):
		var body struct {
			Type string `json:"type"`
		}
		_ = json.Unmarshal([]byte(payload), &body)
		bus := strings.TrimSuffix(strings.TrimPrefix(path, "bus/"), "/add")
		reply(map[string]any{"busId": json.Number(bus), "devId": "1", "type": body.Type})
	default:
		buf := make([]byte, viiper.ReportSize)
		for {
			if _, err := io.ReadFull(r, buf); err != nil {
				return
			}
			var rep viiper.Report
			_ = rep.UnmarshalBinary(buf)
			f.mu.Lock()
			f.reports = append(f.reports, rep)
			f.mu.Unlock()
		}
	}
}

func (f *fakeViiper) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func (f *fakeViiper) Reports() []viiper.Report {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]viiper.Report(nil), f.reports...)
}

func open(t *testing.T, f *fakeViiper, cfg viiper.Config) *viiper.Sink {
	t.Helper()
	cfg.Addr = f.ln.Addr().String()
	cfg.Timeout = 2 * time.Second
	s, err := viiper.Open(context.Background(), cfg, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestReportBinary(t *testing.T) {
	r := viiper.Report{Buttons: 0xff, DX: -2, DY: 300, Wheel: 1, Pan: -1}
	b, err := r.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1f, 0xfe, 0xff, 0x2c, 0x01, 0x01, 0x00, 0xff, 0xff}, b)

	var back viiper.Report
	require.NoError(t, back.UnmarshalBinary(b))
	assert.Equal(t, viiper.Report{Buttons: 0x1f, DX: -2, DY: 300, Wheel: 1, Pan: -1}, back)
	assert.ErrorIs(t, back.UnmarshalBinary(b[:4]), io.ErrUnexpectedEOF)
}

func TestOpenSelectsBus(t *testing.T) {
	tests := []struct {
		name  string
		buses []uint32
		cfg   viiper.Config
		want  []string
		bus   uint32
	}{
		{
			name:  "existing bus",
			buses: []uint32{7, 9},
			want:  []string{"bus/list", `bus/7/add {"type":"mouse"}`, "bus/7/1"},
			bus:   7,
		},
		{
			name: "creates bus",
			want: []string{"bus/list", "bus/create", `bus/1/add {"type":"mouse"}`, "bus/1/1"},
			bus:  1,
		},
		{
			name: "configured bus",
			cfg:  viiper.Config{BusID: 3},
			want: []string{`bus/3/add {"type":"mouse"}`, "bus/3/1"},
			bus:  3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := startFake(t, "", tt.buses...)
			s := open(t, f, tt.cfg)
			bus, dev := s.Device()
			assert.Equal(t, tt.bus, bus)
			assert.Equal(t, "1", dev)
			require.Eventually(t, func() bool { return len(f.Requests()) == len(tt.want) }, time.Second, 5*time.Millisecond)
			assert.Equal(t, tt.want, f.Requests())
		})
	}
}

func TestReportsBatchUntilFinal(t *testing.T) {
	f := startFake(t, "", 1)
	s := open(t, f, viiper.Config{})

	require.NoError(t, s.ReportRelative(motion.AxisX, 5, false))
	require.NoError(t, s.ReportRelative(motion.AxisY, -3, true))
	require.NoError(t, s.ReportRelative(motion.AxisHWheel, 1, false))
	require.NoError(t, s.ReportRelative(motion.AxisWheel, -1, true))
	// empty batches are not sent
	require.NoError(t, s.ReportRelative(motion.AxisX, 0, true))

	require.Eventually(t, func() bool { return len(f.Reports()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []viiper.Report{{DX: 5, DY: -3}, {Wheel: -1, Pan: 1}}, f.Reports())
}

func TestReportSaturates(t *testing.T) {
	f := startFake(t, "", 1)
	s := open(t, f, viiper.Config{})

	require.NoError(t, s.ReportRelative(motion.AxisX, 32000, false))
	require.NoError(t, s.ReportRelative(motion.AxisX, 32000, true))
	require.Eventually(t, func() bool { return len(f.Reports()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int16(32767), f.Reports()[0].DX)
}

func TestAuthenticatedStream(t *testing.T) {
	f := startFake(t, "s3cret", 2)
	s := open(t, f, viiper.Config{Password: "s3cret"})

	require.NoError(t, s.ReportRelative(motion.AxisY, 4, true))
	require.Eventually(t, func() bool { return len(f.Reports()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int16(4), f.Reports()[0].DY)
}

func TestClosedSink(t *testing.T) {
	f := startFake(t, "", 1)
	s := open(t, f, viiper.Config{})
	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.ReportRelative(motion.AxisX, 1, true), viiper.ErrClosed)
}
