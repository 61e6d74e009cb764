package auth

import (
	"bytes"
	"crypto/cipher"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"
)

// maxFrame bounds a single sealed frame.
const maxFrame = 2 << 20

// sealedConn frames every Write as [len u32 BE][nonce 12][ciphertext]. The
// nonce carries a per-direction counter in its last eight bytes.
type sealedConn struct {
	net.Conn
	aead cipher.AEAD

	wmu  sync.Mutex
	wctr uint64

	rbuf bytes.Buffer
}

// Seal wraps conn with the session key.
func Seal(conn net.Conn, session []byte) (net.Conn, error) {
	return seal(conn, session)
}

func seal(conn net.Conn, session []byte) (*sealedConn, error) {
	aead, err := chacha20poly1305.New(session)
	if err != nil {
		return nil, fmt.Errorf("session cipher: %w", err)
	}
	return &sealedConn{Conn: conn, aead: aead}, nil
}

func (c *sealedConn) Write(p []byte) (int, error) {
	c.wmu.Lock()
	defer c.wmu.Unlock()

	frame := make([]byte, 4+chacha20poly1305.NonceSize, 4+chacha20poly1305.NonceSize+len(p)+c.aead.Overhead())
	nonce := frame[4:]
	binary.BigEndian.PutUint64(nonce[4:], c.wctr)
	c.wctr++
	frame = c.aead.Seal(frame, nonce, p, nil)
	binary.BigEndian.PutUint32(frame[:4], uint32(len(frame)-4))

	if _, err := c.Conn.Write(frame); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (c *sealedConn) Read(p []byte) (int, error) {
	return c.readFrom(c.Conn, p)
}

func (c *sealedConn) readFrom(r io.Reader, p []byte) (int, error) {
	if c.rbuf.Len() == 0 {
		var hdr [4]byte
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return 0, err
		}
		n := binary.BigEndian.Uint32(hdr[:])
		if n < chacha20poly1305.NonceSize || n > maxFrame {
			return 0, fmt.Errorf("sealed frame of %d bytes", n)
		}
		frame := make([]byte, n)
		if _, err := io.ReadFull(r, frame); err != nil {
			return 0, err
		}
		pt, err := c.aead.Open(nil, frame[:chacha20poly1305.NonceSize], frame[chacha20poly1305.NonceSize:], nil)
		if err != nil {
			return 0, fmt.Errorf("open sealed frame: %w", err)
		}
		c.rbuf.Write(pt)
	}
	return c.rbuf.Read(p)
}
