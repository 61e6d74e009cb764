package auth

import (
	"bufio"
	"bytes"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"net"
)

// Client authenticates conn with key and returns the encrypted session.
// A server reply other than OK is returned in the error text.
func Client(conn net.Conn, key []byte) (net.Conn, error) {
	clientNonce := make([]byte, NonceSize)
	if _, err := rand.Read(clientNonce); err != nil {
		return nil, fmt.Errorf("client nonce: %w", err)
	}
	hello := make([]byte, 0, len(Magic)+NonceSize+sha256.Size)
	hello = append(hello, Magic...)
	hello = append(hello, clientNonce...)
	hello = append(hello, proof(key, clientNonce)...)
	if _, err := conn.Write(hello); err != nil {
		return nil, fmt.Errorf("write handshake: %w", err)
	}

	prefix := make([]byte, len(okPrefix))
	if _, err := io.ReadFull(conn, prefix); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRejected, err)
	}
	if string(prefix) != okPrefix {
		rest, _ := io.ReadAll(io.LimitReader(conn, 4096))
		return nil, fmt.Errorf("%w: %s", ErrRejected, bytes.TrimSpace(append(prefix, rest...)))
	}
	serverNonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(conn, serverNonce); err != nil {
		return nil, fmt.Errorf("read server nonce: %w", err)
	}
	return Seal(conn, sessionKey(key, serverNonce, clientNonce))
}

// IsHandshake peeks at r for the session magic without consuming it.
func IsHandshake(r *bufio.Reader) bool {
	b, err := r.Peek(len(Magic))
	return err == nil && string(b) == Magic
}

// Server completes a handshake whose magic is next in r. A wrong proof
// returns ErrRejected before anything is written; the caller answers it.
func Server(r *bufio.Reader, conn net.Conn, key []byte) (net.Conn, error) {
	if _, err := r.Discard(len(Magic)); err != nil {
		return nil, fmt.Errorf("read magic: %w", err)
	}
	msg := make([]byte, NonceSize+sha256.Size)
	if _, err := io.ReadFull(r, msg); err != nil {
		return nil, fmt.Errorf("read client hello: %w", err)
	}
	clientNonce, clientProof := msg[:NonceSize], msg[NonceSize:]
	if !hmac.Equal(clientProof, proof(key, clientNonce)) {
		return nil, ErrRejected
	}

	serverNonce := make([]byte, NonceSize)
	if _, err := rand.Read(serverNonce); err != nil {
		return nil, fmt.Errorf("server nonce: %w", err)
	}
	if _, err := conn.Write(append([]byte(okPrefix), serverNonce...)); err != nil {
		return nil, fmt.Errorf("write handshake: %w", err)
	}
	sealed, err := seal(conn, sessionKey(key, serverNonce, clientNonce))
	if err != nil {
		return nil, err
	}
	return &bufferedConn{sealedConn: sealed, r: r}, nil
}

// bufferedConn reads through r, which may already hold the first frames.
type bufferedConn struct {
	*sealedConn
	r *bufio.Reader
}

func (c *bufferedConn) Read(p []byte) (int, error) {
	return c.readFrom(c.r, p)
}
