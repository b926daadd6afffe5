package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zeusync/sat2d/internal/core/observability/log"
)

const (
	writeWait     = 5 * time.Second
	clientBacklog = 16
)

type FeedConfig struct {
	// MaxClients caps concurrent websocket viewers; 0 means unlimited.
	MaxClients int
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// Feed broadcasts JSON-encoded snapshots to websocket viewers on /ws and
// serves the latest one on /snapshot.
type Feed struct {
	cfg      FeedConfig
	logger   log.Log
	upgrader websocket.Upgrader
	mux      *http.ServeMux

	mu       sync.Mutex
	clients  map[*client]struct{}
	last     []byte
	server   *http.Server
	listener net.Listener
	closed   bool
}

func NewFeed(cfg FeedConfig, logger log.Log) *Feed {
	if logger == nil {
		logger = log.Provide()
	}
	f := &Feed{
		cfg:    cfg,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
	f.mux = http.NewServeMux()
	f.mux.HandleFunc("/ws", f.handleWebSocket)
	f.mux.HandleFunc("/snapshot", f.handleSnapshot)
	return f
}

func (f *Feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mux.ServeHTTP(w, r)
}

// Start listens on addr and serves in the background until Stop.
func (f *Feed) Start(_ context.Context, addr string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrServerClosed
	}
	if f.server != nil {
		return ErrServerAlreadyRunning
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	f.listener = ln
	f.server = &http.Server{
		Handler:           f,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func(srv *http.Server) {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			f.logger.Error("feed server failed", log.Error(err))
		}
	}(f.server)

	f.logger.Info("feed listening", log.String("addr", ln.Addr().String()))
	return nil
}

// Addr is the bound listen address, or "" before Start.
func (f *Feed) Addr() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listener == nil {
		return ""
	}
	return f.listener.Addr().String()
}

// Stop shuts the HTTP server down and disconnects every viewer.
// The feed cannot be restarted.
func (f *Feed) Stop(ctx context.Context) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrServerClosed
	}
	f.closed = true
	srv := f.server
	clients := f.clients
	f.clients = make(map[*client]struct{})
	f.mu.Unlock()

	for c := range clients {
		c.close()
	}
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// Publish encodes v as JSON and queues it for every viewer. Viewers whose
// backlog is full are disconnected.
func (f *Feed) Publish(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrServerClosed
	}
	f.last = data
	for c := range f.clients {
		select {
		case c.send <- data:
		default:
			f.logger.Warn("dropping slow viewer", log.String("remote", c.conn.RemoteAddr().String()))
			delete(f.clients, c)
			c.close()
		}
	}
	return nil
}

// ClientCount is the number of connected viewers.
func (f *Feed) ClientCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.clients)
}

func (f *Feed) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	f.mu.Lock()
	data := f.last
	f.mu.Unlock()
	if data == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (f *Feed) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	switch {
	case f.closed:
		f.mu.Unlock()
		http.Error(w, ErrServerClosed.Error(), http.StatusServiceUnavailable)
		return
	case f.cfg.MaxClients > 0 && len(f.clients) >= f.cfg.MaxClients:
		f.mu.Unlock()
		http.Error(w, ErrMaxClientsReached.Error(), http.StatusServiceUnavailable)
		return
	}
	f.mu.Unlock()

	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.logger.Warn("websocket upgrade failed", log.Error(err))
		return
	}

	c := &client{conn: conn, send: make(chan []byte, clientBacklog)}
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		_ = conn.Close()
		return
	}
	if f.last != nil {
		c.send <- f.last
	}
	f.clients[c] = struct{}{}
	f.mu.Unlock()

	f.logger.Debug("viewer connected", log.String("remote", conn.RemoteAddr().String()))
	go f.writeLoop(c)
	f.readLoop(c)
}

// readLoop discards viewer messages and unregisters the viewer on disconnect.
func (f *Feed) readLoop(c *client) {
	defer func() {
		f.mu.Lock()
		if _, ok := f.clients[c]; ok {
			delete(f.clients, c)
			c.close()
		}
		f.mu.Unlock()
		f.logger.Debug("viewer disconnected", log.String("remote", c.conn.RemoteAddr().String()))
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (f *Feed) writeLoop(c *client) {
	defer c.conn.Close()
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
