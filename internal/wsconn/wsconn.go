// Package wsconn provides a WebSocket client with automatic reconnection.
package wsconn

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/fd1az/seller-scout/internal/apperror"
)

// State represents the connection state.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateReconnecting State = "reconnecting"
	StateClosed       State = "closed"
)

// Config holds WebSocket client configuration.
type Config struct {
	URL            string
	Name           string
	Header         http.Header
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	MaxReconnects  int // 0 = infinite
	PingInterval   time.Duration
	PongTimeout    time.Duration
	MaxMessageSize int64
}

// DefaultConfig returns defaults for a named connection.
func DefaultConfig(url, name string) Config {
	return Config{
		URL:            url,
		Name:           name,
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     30 * time.Second,
		PingInterval:   30 * time.Second,
		PongTimeout:    10 * time.Second,
		MaxMessageSize: 1 << 20,
	}
}

// MessageHandler receives every inbound message.
type MessageHandler func(ctx context.Context, msg []byte)

// StateHandler observes state transitions. err carries the cause of a disconnect.
type StateHandler func(state State, err error)

// Client is a WebSocket client that reconnects with exponential backoff.
type Client struct {
	config Config

	mu         sync.RWMutex
	state      State
	conn       *websocket.Conn
	onMessage  MessageHandler
	onState    StateHandler
	reconnects int

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// New creates a client. It does not dial until Connect is called.
func New(config Config) (*Client, error) {
	if config.URL == "" {
		return nil, apperror.Validation(apperror.CodeRequiredField, "websocket url")
	}
	if config.InitialBackoff <= 0 {
		config.InitialBackoff = time.Second
	}
	if config.MaxBackoff < config.InitialBackoff {
		config.MaxBackoff = config.InitialBackoff
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		config: config,
		state:  StateDisconnected,
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// OnMessage registers the inbound message handler. Call before Connect.
func (c *Client) OnMessage(h MessageHandler) {
	c.mu.Lock()
	c.onMessage = h
	c.mu.Unlock()
}

// OnStateChange registers the state transition handler. Call before Connect.
func (c *Client) OnStateChange(h StateHandler) {
	c.mu.Lock()
	c.onState = h
	c.mu.Unlock()
}

// Connect dials the server. ctx bounds only the initial dial.
func (c *Client) Connect(ctx context.Context) error {
	if c.ctx.Err() != nil {
		return apperror.New(apperror.CodeWebSocketClosed, apperror.WithContext(c.config.Name))
	}

	c.setState(StateConnecting, nil)

	conn, err := c.dial(ctx)
	if err != nil {
		c.setState(StateDisconnected, err)
		return apperror.New(apperror.CodeWebSocketConnectionError,
			apperror.WithCause(err),
			apperror.WithContext(c.config.Name))
	}

	c.attach(conn)
	return nil
}

// Send writes a text message.
func (c *Client) Send(ctx context.Context, msg []byte) error {
	conn, err := c.activeConn()
	if err != nil {
		return err
	}
	if err := conn.Write(ctx, websocket.MessageText, msg); err != nil {
		return apperror.New(apperror.CodeWebSocketSendError, apperror.WithCause(err), apperror.WithContext(c.config.Name))
	}
	return nil
}

// SendJSON writes v as a JSON text message.
func (c *Client) SendJSON(ctx context.Context, v any) error {
	conn, err := c.activeConn()
	if err != nil {
		return err
	}
	if err := wsjson.Write(ctx, conn, v); err != nil {
		return apperror.New(apperror.CodeWebSocketSendError, apperror.WithCause(err), apperror.WithContext(c.config.Name))
	}
	return nil
}

// State returns the current connection state.
func (c *Client) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// IsConnected reports whether the client currently holds an open connection.
func (c *Client) IsConnected() bool {
	return c.State() == StateConnected
}

// Reconnects returns how many reconnect attempts the current outage has used.
func (c *Client) Reconnects() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.reconnects
}

// Close stops reconnection and closes the connection. It is idempotent.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.cancel()

		c.mu.Lock()
		conn := c.conn
		c.conn = nil
		c.mu.Unlock()

		if conn != nil {
			conn.Close(websocket.StatusNormalClosure, "client closing")
		}
		c.setState(StateClosed, nil)
	})
	return nil
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	conn, _, err := websocket.Dial(ctx, c.config.URL, &websocket.DialOptions{
		HTTPHeader: c.config.Header,
	})
	if err != nil {
		return nil, err
	}
	if c.config.MaxMessageSize > 0 {
		conn.SetReadLimit(c.config.MaxMessageSize)
	}
	return conn, nil
}

func (c *Client) attach(conn *websocket.Conn) {
	c.mu.Lock()
	if c.ctx.Err() != nil {
		c.mu.Unlock()
		conn.Close(websocket.StatusNormalClosure, "client closed")
		return
	}
	c.conn = conn
	c.reconnects = 0
	c.mu.Unlock()

	c.setState(StateConnected, nil)

	go c.readLoop(conn)
	if c.config.PingInterval > 0 {
		go c.pingLoop(conn)
	}
}

func (c *Client) activeConn() (*websocket.Conn, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.conn == nil || c.state != StateConnected {
		return nil, apperror.New(apperror.CodeWebSocketSendError,
			apperror.WithMessage("websocket is not connected"),
			apperror.WithContext(c.config.Name))
	}
	return c.conn, nil
}

func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.Read(c.ctx)
		if err != nil {
			if c.ctx.Err() != nil {
				return
			}
			conn.Close(websocket.StatusGoingAway, "read failed")
			c.reconnect(conn, err)
			return
		}

		c.mu.RLock()
		handler := c.onMessage
		c.mu.RUnlock()
		if handler != nil {
			handler(c.ctx, data)
		}
	}
}

func (c *Client) pingLoop(conn *websocket.Conn) {
	ticker := time.NewTicker(c.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(c.ctx, c.config.PongTimeout)
			err := conn.Ping(pingCtx)
			cancel()
			if err != nil {
				// closing unblocks readLoop, which owns reconnection
				conn.Close(websocket.StatusGoingAway, "pong timeout")
				return
			}
		}
	}
}

func (c *Client) reconnect(old *websocket.Conn, cause error) {
	c.mu.Lock()
	if c.conn == old {
		c.conn = nil
	}
	c.mu.Unlock()

	c.setState(StateReconnecting, cause)

	for attempt := 1; ; attempt++ {
		if c.config.MaxReconnects > 0 && attempt > c.config.MaxReconnects {
			c.setState(StateDisconnected, cause)
			return
		}

		c.mu.Lock()
		c.reconnects = attempt
		c.mu.Unlock()

		select {
		case <-c.ctx.Done():
			return
		case <-time.After(c.backoff(attempt)):
		}

		conn, err := c.dial(c.ctx)
		if err != nil {
			cause = err
			continue
		}
		c.attach(conn)
		return
	}
}

// backoff doubles from InitialBackoff per attempt, capped at MaxBackoff.
func (c *Client) backoff(attempt int) time.Duration {
	d := c.config.InitialBackoff
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= c.config.MaxBackoff {
			return c.config.MaxBackoff
		}
	}
	return d
}

func (c *Client) setState(state State, err error) {
	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		return
	}
	c.state = state
	handler := c.onState
	c.mu.Unlock()

	if handler != nil {
		handler(state, err)
	}
}
