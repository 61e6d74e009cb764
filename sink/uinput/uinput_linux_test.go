//go:build linux

package uinput

import (
	"bytes"
	"encoding/binary"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/pawd/motion"
)

func decode(t *testing.T, b []byte) []inputEvent {
	t.Helper()
	var out []inputEvent
	r := bytes.NewReader(b)
	for r.Len() > 0 {
		var ev inputEvent
		require.NoError(t, binary.Read(r, binary.NativeEndian, &ev))
		out = append(out, ev)
	}
	return out
}

func TestReportRelative(t *testing.T) {
	var buf bytes.Buffer
	at := time.Unix(1700000000, 250_000_000)
	d := &Device{w: &buf, now: func() time.Time { return at }, logger: slog.New(slog.DiscardHandler)}

	require.NoError(t, d.ReportRelative(motion.AxisX, -4, false))
	require.NoError(t, d.ReportRelative(motion.AxisY, 9, true))
	require.NoError(t, d.ReportRelative(motion.AxisHWheel, 1, true))

	events := decode(t, buf.Bytes())
	require.Len(t, events, 5)
	assert.Equal(t, uint16(evRel), events[0].Type)
	assert.Equal(t, uint16(relX), events[0].Code)
	assert.Equal(t, int32(-4), events[0].Value)
	assert.Equal(t, uint16(relY), events[1].Code)
	assert.Equal(t, uint16(evSyn), events[2].Type)
	assert.Equal(t, uint16(relHWheel), events[3].Code)
	assert.Equal(t, uint16(evSyn), events[4].Type)
	assert.Equal(t, int64(250_000), int64(events[0].Time.Usec))
}

func TestReportRelativeUnknownAxis(t *testing.T) {
	var buf bytes.Buffer
	d := &Device{w: &buf, now: time.Now}
	assert.Error(t, d.ReportRelative(motion.Axis(9), 1, true))
	assert.Zero(t, buf.Len())
}
