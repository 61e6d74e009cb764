// Package control serves the pawd control API: a small TCP protocol where
// each connection carries one `<path>[ <payload>]\x00` request and receives
// one JSON line.
package control

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/Alia5/pawd/internal/auth"
)

// maxRequest bounds a request line.
const maxRequest = 64 << 10

type Server struct {
	config ServerConfig
	logger *slog.Logger
	router *Router
	key    []byte

	mu sync.Mutex
	ln net.Listener
	wg sync.WaitGroup
}

func New(config ServerConfig, logger *slog.Logger) (*Server, error) {
	s := &Server{config: config, logger: logger, router: NewRouter()}
	if config.Password != "" {
		key, err := auth.Key(config.Password)
		if err != nil {
			return nil, err
		}
		s.key = key
	}
	return s, nil
}

// Router returns the router so callers can register handlers.
func (s *Server) Router() *Router { return s.router }

func (s *Server) Config() ServerConfig { return s.config }

// Addr returns the bound address once Start succeeded.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return s.config.Addr
	}
	return s.ln.Addr().String()
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	s.logger.Info("Control API listening", "addr", ln.Addr().String(), "auth", s.key != nil)
	s.wg.Add(1)
	go s.serve(ln)
	return nil
}

// Close stops accepting and waits for in-flight requests.
func (s *Server) Close() {
	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()
	if ln != nil {
		_ = ln.Close()
	}
	s.wg.Wait()
}

func (s *Server) serve(ln net.Listener) {
	defer s.wg.Done()
	for {
		c, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				s.logger.Info("Control API stopped")
			} else {
				s.logger.Error("Control API accept error", "error", err)
			}
			return
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(c)
		}()
	}
}

func writeError(w io.Writer, err error) {
	problemJSON, _ := json.Marshal(WrapError(err))
	fmt.Fprintf(w, "%s\n", problemJSON)
}

func writeOK(w io.Writer, body string) {
	fmt.Fprintf(w, "%s\n", body)
}

func (s *Server) handleConn(raw net.Conn) {
	defer raw.Close()
	if s.config.ConnectionTimeout > 0 {
		_ = raw.SetDeadline(time.Now().Add(s.config.ConnectionTimeout))
	}
	logger := s.logger.With("remote", raw.RemoteAddr().String())

	var conn net.Conn = raw
	r := bufio.NewReader(raw)
	if s.key != nil {
		if !auth.IsHandshake(r) {
			logger.Warn("Control request without authentication")
			writeError(raw, ErrUnauthorized("authentication required"))
			return
		}
		sealed, err := auth.Server(r, raw, s.key)
		if err != nil {
			logger.Warn("Control authentication failed", "error", err)
			writeError(raw, ErrUnauthorized("invalid password"))
			return
		}
		conn = sealed
		r = bufio.NewReader(sealed)
	}

	reqData, err := readRequest(r)
	if err != nil {
		logger.Error("Control read failed", "error", err)
		if !errors.Is(err, io.EOF) {
			writeError(conn, ErrBadRequest(err.Error()))
		}
		return
	}

	path, payload, _ := strings.Cut(reqData, " ")
	payload = strings.TrimSpace(payload)
	if path == "" {
		writeError(conn, ErrBadRequest("empty request"))
		return
	}
	logger.Debug("Control request", "path", path)

	h, params := s.router.Match(path)
	if h == nil {
		writeError(conn, ErrNotFound("unknown path: "+path))
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	res := &Response{}
	if err := h(&Request{Ctx: ctx, Params: params, Payload: payload}, res, logger); err != nil {
		logger.Info("Control request failed", "path", path, "error", err)
		writeError(conn, err)
		return
	}
	writeOK(conn, res.JSON)
}

func readRequest(r *bufio.Reader) (string, error) {
	var b strings.Builder
	for {
		c, err := r.ReadByte()
		if err != nil {
			if err == io.EOF && b.Len() > 0 {
				return "", errors.New("incomplete request (no null terminator)")
			}
			return "", err
		}
		if c == 0 {
			return b.String(), nil
		}
		if b.Len() >= maxRequest {
			return "", errors.New("request too large")
		}
		b.WriteByte(c)
	}
}
