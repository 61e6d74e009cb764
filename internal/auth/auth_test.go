package auth_test

import (
	"bufio"
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/pawd/internal/auth"
)

func TestKey(t *testing.T) {
	key, err := auth.Key("password123")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x94, 0x50, 0x29, 0x55, 0x1, 0xd7, 0x3, 0xf, 0x4, 0x61, 0xf, 0x81, 0x6a, 0xdf, 0x43, 0x1c, 0xaf, 0x8f, 0xc8, 0x21, 0xd4, 0xc1, 0x2f, 0x2f, 0x21, 0x2c, 0x1b, 0xf8, 0x64, 0x46, 0x9, 0x82}, key)

	_, err = auth.Key("")
	assert.ErrorIs(t, err, auth.ErrEmptyPassword)
}

func handshakePair(t *testing.T, clientPw, serverPw string) (net.Conn, net.Conn, error, error) {
	t.Helper()
	ck, err := auth.Key(clientPw)
	require.NoError(t, err)
	sk, err := auth.Key(serverPw)
	require.NoError(t, err)

	c, s := net.Pipe()
	t.Cleanup(func() { _ = c.Close(); _ = s.Close() })

	type result struct {
		conn net.Conn
		err  error
	}
	srv := make(chan result, 1)
	go func() {
		r := bufio.NewReader(s)
		if !auth.IsHandshake(r) {
			srv <- result{err: io.ErrUnexpectedEOF}
			return
		}
		conn, err := auth.Server(r, s, sk)
		if err != nil {
			_, _ = s.Write([]byte(`{"status":401,"title":"Unauthorized"}` + "\n"))
			_ = s.Close()
		}
		srv <- result{conn, err}
	}()
	cc, cerr := auth.Client(c, ck)
	sr := <-srv
	return cc, sr.conn, cerr, sr.err
}

func TestHandshakeRoundTrip(t *testing.T) {
	cc, sc, cerr, serr := handshakePair(t, "hunter2", "hunter2")
	require.NoError(t, cerr)
	require.NoError(t, serr)

	go func() { _, _ = cc.Write([]byte("device/list\x00")) }()
	buf := make([]byte, 12)
	_, err := io.ReadFull(sc, buf)
	require.NoError(t, err)
	assert.Equal(t, "device/list\x00", string(buf))

	go func() { _, _ = sc.Write([]byte(`{"devices":[]}`)) }()
	buf = make([]byte, 14)
	_, err = io.ReadFull(cc, buf)
	require.NoError(t, err)
	assert.Equal(t, `{"devices":[]}`, string(buf))
}

func TestHandshakeWrongPassword(t *testing.T) {
	_, _, cerr, serr := handshakePair(t, "hunter2", "letmein")
	assert.ErrorIs(t, serr, auth.ErrRejected)
	assert.ErrorIs(t, cerr, auth.ErrRejected)
	assert.Contains(t, cerr.Error(), "Unauthorized")
}
