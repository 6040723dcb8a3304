// Package client provides a Go client for the rifsredis key/value server.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/yndnr/rifsredis/internal/protocol"
)

// Default request budget: a Get waits up to DefaultGetRetries checks
// spaced DefaultGetInterval apart (about 10s) for its response.
const (
	DefaultGetRetries   = 100
	DefaultGetInterval  = 100 * time.Millisecond
	DefaultDialTimeout  = 5 * time.Second
	DefaultWriteTimeout = 5 * time.Second
)

// Config holds client configuration.
type Config struct {
	// Address is the server host:port.
	Address string
	// GetRetries is the number of interval checks before a request times out.
	GetRetries int
	// GetInterval is the spacing between checks.
	GetInterval time.Duration
	// DialTimeout bounds establishing the connection.
	DialTimeout time.Duration
	// WriteTimeout bounds writing one request.
	WriteTimeout time.Duration
	// MaxFrameSize limits a single response frame.
	MaxFrameSize int
}

// DefaultConfig returns the default configuration for the given address.
func DefaultConfig(address string) Config {
	return Config{
		Address:      address,
		GetRetries:   DefaultGetRetries,
		GetInterval:  DefaultGetInterval,
		DialTimeout:  DefaultDialTimeout,
		WriteTimeout: DefaultWriteTimeout,
		MaxFrameSize: protocol.DefaultMaxFrameSize,
	}
}

func (c *Config) applyDefaults() {
	if c.GetRetries <= 0 {
		c.GetRetries = DefaultGetRetries
	}
	if c.GetInterval <= 0 {
		c.GetInterval = DefaultGetInterval
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = DefaultDialTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
	if c.MaxFrameSize <= 0 {
		c.MaxFrameSize = protocol.DefaultMaxFrameSize
	}
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// Client talks to one rifsredis server over one persistent connection.
type Client struct {
	cfg    Config
	logger *slog.Logger

	mu        sync.Mutex
	conn      net.Conn
	started   bool
	readDone  chan struct{}
	closeOnce sync.Once

	writeMu sync.Mutex
	demux   *demux
}

// New creates a client. Call Init before issuing requests.
func New(cfg Config, opts ...Option) *Client {
	cfg.applyDefaults()

	c := &Client{
		cfg:      cfg,
		logger:   slog.Default(),
		readDone: make(chan struct{}),
		demux:    newDemux(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "client", "server", cfg.Address)
	return c
}

// Init dials the server and starts the response reader.
func (c *Client) Init(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.demux.done:
		return ErrClosed
	default:
	}
	if c.started {
		return ErrAlreadyConnected
	}

	dialer := net.Dialer{Timeout: c.cfg.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", c.cfg.Address)
	if err != nil {
		c.logger.Error("connect failed", "error", err)
		return fmt.Errorf("client: dial %s: %w", c.cfg.Address, err)
	}

	// Terminate may have closed the demux during the dial.
	select {
	case <-c.demux.done:
		_ = conn.Close()
		return ErrClosed
	default:
	}

	c.conn = conn
	c.started = true
	c.logger.Info("connected", "local", conn.LocalAddr().String())

	go c.readLoop(conn)
	return nil
}

// Terminate closes the connection. Pending and future requests fail
// with ErrClosed. It is safe to call more than once, and concurrently
// with Init.
func (c *Client) Terminate() error {
	first := false
	c.closeOnce.Do(func() {
		first = true
		c.demux.close()
	})

	// Init sets conn under c.mu only while done is still open.
	c.mu.Lock()
	conn := c.conn
	started := c.started
	c.mu.Unlock()

	var err error
	if first {
		if conn != nil {
			err = conn.Close()
		}
		c.logger.Info("connection terminated")
	}

	if started {
		<-c.readDone
	}
	return err
}

// Done is closed once the connection is terminated or lost.
func (c *Client) Done() <-chan struct{} {
	return c.demux.done
}

// Set writes a SET request without waiting for its response.
// It reports whether the request was written to the connection.
func (c *Client) Set(key, value string) bool {
	req, err := protocol.NewSetRequest(key, value)
	if err != nil {
		c.logger.Error("set failed", "key", key, "error", err)
		return false
	}
	if err := c.write(req); err != nil {
		c.logger.Warn("set failed", "key", key, "error", err)
		return false
	}
	return true
}

// SetConfirmed writes a SET request and waits for the server to acknowledge it.
func (c *Client) SetConfirmed(ctx context.Context, key, value string) error {
	req, err := protocol.NewSetRequest(key, value)
	if err != nil {
		return err
	}
	resp, err := c.roundTrip(ctx, req)
	if err != nil {
		return err
	}
	if !resp.Success {
		if err := serverError(resp); err != nil {
			return err
		}
		return fmt.Errorf("%w: set %q", ErrRejected, key)
	}
	return nil
}

// Get returns the value stored under key.
//
// It returns ErrNotFound when the server reports the key missing,
// ErrRateLimited when the server throttled the request, ErrTimeout when
// no response arrives within the retry budget, ErrClosed when the
// connection is gone, or ctx's error.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	req, err := protocol.NewGetRequest(key)
	if err != nil {
		return "", err
	}
	resp, err := c.roundTrip(ctx, req)
	if err != nil {
		return "", err
	}
	if err := serverError(resp); err != nil {
		return "", err
	}
	if !resp.Success || resp.Response == nil {
		return "", ErrNotFound
	}
	return *resp.Response, nil
}

// Lookup is Get with a nullable result: nil on any failure.
func (c *Client) Lookup(ctx context.Context, key string) *string {
	v, err := c.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			c.logger.Warn("get failed", "key", key, "error", err)
		}
		return nil
	}
	return &v
}

// Budget returns how long a request waits for its response.
func (c *Client) Budget() time.Duration {
	return time.Duration(c.cfg.GetRetries) * c.cfg.GetInterval
}

func (c *Client) roundTrip(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	w, err := c.demux.register(req.CorrelationID, req.Action)
	if err != nil {
		return nil, err
	}
	defer c.demux.remove(req.CorrelationID)

	if err := c.write(req); err != nil {
		return nil, err
	}

	ticker := time.NewTicker(c.cfg.GetInterval)
	defer ticker.Stop()

	for attempts := c.cfg.GetRetries; ; {
		select {
		case resp := <-w.ch:
			return resp, nil
		case <-c.demux.done:
			return nil, ErrClosed
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			attempts--
			if attempts <= 0 {
				c.logger.Warn("request timed out",
					"action", string(req.Action),
					"key", req.Key,
					"correlation_id", req.CorrelationID,
					"budget", c.Budget())
				return nil, fmt.Errorf("%w: %s %q after %s", ErrTimeout, req.Action, req.Key, c.Budget())
			}
		}
	}
}

func (c *Client) write(req *protocol.Request) error {
	conn := c.currentConn()
	if conn == nil {
		return ErrNotConnected
	}

	select {
	case <-c.demux.done:
		return ErrClosed
	default:
	}

	data, err := protocol.EncodeRequest(req)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout)); err != nil {
		return c.writeFailed(err)
	}
	if err := protocol.WriteFrame(conn, data); err != nil {
		return c.writeFailed(err)
	}
	return nil
}

// writeFailed treats a write error as loss of the connection.
func (c *Client) writeFailed(err error) error {
	c.logger.Error("write failed", "error", err)
	_ = c.Terminate()
	return fmt.Errorf("%w: %v", ErrClosed, err)
}

func (c *Client) readLoop(conn net.Conn) {
	defer close(c.readDone)

	reader := protocol.NewReader(conn, c.cfg.MaxFrameSize)
	for {
		frame, err := reader.ReadFrame()
		if err != nil {
			c.connectionLost(err)
			return
		}

		resp, err := protocol.DecodeResponse(frame)
		if err != nil {
			c.logger.Warn("dropping malformed response", "error", err)
			continue
		}

		if !protocol.IsCorrelationID(resp.CorrelationID) {
			c.logger.Warn("dropping response with invalid correlation id",
				"action", string(resp.Action),
				"correlation_id", resp.CorrelationID)
			continue
		}

		if !c.demux.resolve(resp) {
			// Fire-and-forget SET acknowledgements end up here.
			c.logger.Debug("unmatched response",
				"action", string(resp.Action),
				"correlation_id", resp.CorrelationID,
				"success", resp.Success)
		}
	}
}

func (c *Client) connectionLost(err error) {
	select {
	case <-c.demux.done:
		// Terminate closed the connection.
		return
	default:
	}

	if errors.Is(err, io.EOF) {
		c.logger.Warn("connection closed by server")
	} else {
		c.logger.Error("connection error", "error", err)
	}

	c.closeOnce.Do(func() {
		c.demux.close()
		if conn := c.currentConn(); conn != nil {
			_ = conn.Close()
		}
	})
}

func (c *Client) currentConn() net.Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn
}
