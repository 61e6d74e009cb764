// Package auth implements the password handshake and encrypted framing of
// the VIIPER management protocol, used both by the pawd control API and by
// the VIIPER sink.
package auth

import (
	"crypto/hmac"
	"crypto/pbkdf2"
	"crypto/sha256"
	"errors"
)

const (
	// Magic opens an authenticated session.
	Magic     = "eVI1\x00"
	NonceSize = 32

	keySalt        = "VIIPER-Key-v1"
	keyIterations  = 100000
	authContext    = "VIIPER-Auth-v1"
	sessionContext = "VIIPER-Session-v1"
	okPrefix       = "OK\x00"
)

var (
	ErrEmptyPassword = errors.New("password cannot be empty")
	ErrRejected      = errors.New("authentication rejected")
)

// Key stretches password into the 32-byte shared key.
func Key(password string) ([]byte, error) {
	if password == "" {
		return nil, ErrEmptyPassword
	}
	return pbkdf2.Key(sha256.New, password, []byte(keySalt), keyIterations, 32)
}

func proof(key, clientNonce []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(authContext))
	mac.Write(clientNonce)
	return mac.Sum(nil)
}

func sessionKey(key, serverNonce, clientNonce []byte) []byte {
	h := sha256.New()
	h.Write(key)
	h.Write(serverNonce)
	h.Write(clientNonce)
	h.Write([]byte(sessionContext))
	return h.Sum(nil)
}
