// Package kvserver provides the RifsRedis TCP key/value server.
package kvserver

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/yndnr/rifsredis/internal/protocol"
	"github.com/yndnr/rifsredis/internal/storage/memory"
	"github.com/yndnr/rifsredis/internal/telemetry/logger"
	"github.com/yndnr/rifsredis/internal/telemetry/metric"
)

// Config holds the key/value server configuration.
type Config struct {
	// Address is the host:port to listen on.
	Address string
	// ReadTimeout bounds reading the rest of a frame once its first byte arrived (default: 30s).
	ReadTimeout time.Duration
	// WriteTimeout is the timeout for writing a response (default: 30s).
	WriteTimeout time.Duration
	// IdleTimeout closes connections that send nothing for this long.
	// Zero keeps idle connections open (default).
	IdleTimeout time.Duration
	// RateLimit is the maximum number of requests per second per connection.
	// Set to 0 to disable rate limiting.
	RateLimit int
	// MaxFrameSize limits a single request frame (default: protocol.DefaultMaxFrameSize).
	MaxFrameSize int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Address:      "127.0.0.1:6380",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		RateLimit:    0,
		MaxFrameSize: protocol.DefaultMaxFrameSize,
	}
}

// Server serves the shared store over TCP.
type Server struct {
	cfg     *Config
	handler *Handler
	store   *memory.Store
	metrics *metric.Registry
	logger  *slog.Logger

	ln      net.Listener
	running atomic.Bool
	wg      sync.WaitGroup

	connsMu sync.Mutex
	conns   map[*Conn]struct{}
}

// Conn represents a single client connection.
type Conn struct {
	netConn net.Conn
	reader  *protocol.Reader
	limiter *rate.Limiter

	closed atomic.Bool
}

func newConn(c net.Conn, maxFrameSize, rateLimit int) *Conn {
	conn := &Conn{
		netConn: c,
		reader:  protocol.NewReader(c, maxFrameSize),
	}
	if rateLimit > 0 {
		conn.limiter = rate.NewLimiter(rate.Limit(rateLimit), rateLimit)
	}
	return conn
}

// Close closes the connection once.
func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.netConn.Close()
}

// RemoteAddr returns the peer address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.netConn.RemoteAddr()
}

// New creates a new key/value server. A nil metrics registry gets a
// private one so instrumentation never needs nil checks.
func New(cfg *Config, store *memory.Store, metrics *metric.Registry, lg *slog.Logger) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if store == nil {
		store = memory.New()
	}
	if metrics == nil {
		metrics = metric.NewRegistry()
	}
	if lg == nil {
		lg = slog.Default()
	}

	return &Server{
		cfg:     cfg,
		handler: NewHandler(store),
		store:   store,
		metrics: metrics,
		logger:  slog.New(logger.ContextHandler(lg.Handler())).With("component", "kvserver"),
		conns:   make(map[*Conn]struct{}),
	}
}

// Store returns the store served by s.
func (s *Server) Store() *memory.Store {
	return s.store
}

// Start binds the listener and serves connections in the background.
// Bind errors are returned synchronously.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return err
	}
	s.ln = ln
	s.running.Store(true)

	s.logger.Info("rifsredis server started", "address", ln.Addr().String())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.acceptLoop(ctx, ln); err != nil && s.running.Load() {
			s.logger.Error("accept loop error", "error", err)
		}
	}()

	return nil
}

// Addr returns the bound listener address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Shutdown closes the listener and every open connection, then waits
// for connection goroutines to exit or ctx to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	var closeErr error
	if s.ln != nil {
		closeErr = s.ln.Close()
	}

	s.connsMu.Lock()
	for c := range s.conns {
		_ = c.Close()
	}
	s.connsMu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.logger.Info("rifsredis server terminated")
	return closeErr
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) error {
	for {
		nc, err := ln.Accept()
		if err != nil {
			if !s.running.Load() {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			return err
		}

		c := newConn(nc, s.cfg.MaxFrameSize, s.cfg.RateLimit)
		if !s.track(c) {
			_ = c.Close()
			return nil
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.untrack(c)
			s.serveConn(ctx, c)
		}()
	}
}

func (s *Server) track(c *Conn) bool {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	if !s.running.Load() {
		return false
	}
	s.conns[c] = struct{}{}
	s.metrics.ConnectionsActive.Inc()
	s.metrics.ConnectionsTotal.Inc()
	return true
}

func (s *Server) untrack(c *Conn) {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	if _, ok := s.conns[c]; ok {
		delete(s.conns, c)
		s.metrics.ConnectionsActive.Dec()
	}
}

func (s *Server) serveConn(ctx context.Context, c *Conn) {
	defer c.Close()

	log := s.logger.With("remote", c.RemoteAddr().String())
	log.Debug("connection opened")
	defer log.Debug("connection closed")

	readTimeout := s.cfg.ReadTimeout
	if readTimeout == 0 {
		readTimeout = 30 * time.Second
	}
	writeTimeout := s.cfg.WriteTimeout
	if writeTimeout == 0 {
		writeTimeout = 30 * time.Second
	}
	idleTimeout := s.cfg.IdleTimeout

	for {
		if ctx.Err() != nil {
			return
		}

		// Idle deadline until the first byte of the next frame.
		var idleDeadline time.Time
		if idleTimeout > 0 {
			idleDeadline = time.Now().Add(idleTimeout)
		}
		if err := c.netConn.SetReadDeadline(idleDeadline); err != nil {
			return
		}
		if err := c.reader.Peek(); err != nil {
			logReadError(log, err)
			return
		}

		// Then the tighter per-frame deadline.
		if err := c.netConn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
			return
		}
		frame, err := c.reader.ReadFrame()
		if err != nil {
			if errors.Is(err, protocol.ErrFrameTooLarge) {
				s.metrics.MalformedFrames.Inc()
				log.Warn("frame limit exceeded, closing connection", "error", err)
				return
			}
			logReadError(log, err)
			return
		}

		if err := s.handleFrame(ctx, c, log, frame, writeTimeout); err != nil {
			log.Debug("write response failed", "error", err)
			return
		}
	}
}

// handleFrame decodes and answers one frame. Undecodable frames are
// logged and dropped; only write failures are returned.
func (s *Server) handleFrame(ctx context.Context, c *Conn, log *slog.Logger, frame []byte, writeTimeout time.Duration) error {
	start := time.Now()

	req, err := protocol.DecodeRequest(frame)
	if err != nil {
		s.metrics.MalformedFrames.Inc()
		log.Warn("dropping malformed frame", "error", err, "size", len(frame))
		return nil
	}

	var resp *protocol.Response
	outcome := metric.OutcomeSuccess
	if c.limiter != nil && !c.limiter.Allow() {
		action := req.Action
		if action.Validate() != nil {
			action = protocol.ActionGet
		}
		resp = failureResponse(action, req.CorrelationID)
		resp.Error = protocol.ErrCodeRateLimited
		outcome = metric.OutcomeRateLimited
	} else {
		resp = s.handler.Handle(req)
		if !resp.Success {
			outcome = metric.OutcomeFailure
		}
	}

	log.InfoContext(logger.WithCorrelationID(ctx, req.CorrelationID), "request handled",
		"action", string(req.Action),
		"key", req.Key,
		"success", resp.Success,
		"outcome", outcome,
		"response", resp.Value())

	data, err := protocol.EncodeResponse(resp)
	if err != nil {
		return err
	}
	if err := c.netConn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	if err := protocol.WriteFrame(c.netConn, data); err != nil {
		return err
	}

	s.metrics.ObserveRequest(actionLabel(req.Action), outcome, time.Since(start))
	return nil
}

func logReadError(log *slog.Logger, err error) {
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		return
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		log.Debug("connection timed out")
		return
	}
	log.Debug("connection read error", "error", err)
}
