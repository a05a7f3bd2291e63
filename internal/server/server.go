// Package server streams a running fight to websocket clients. Clients
// receive a frame whenever the fight advances and may pause, resume or
// single-step it.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/counterpunch/counterpunch-go/internal/config"
)

// Server serves the feed over HTTP and websocket.
type Server struct {
	cfg      config.FeedConfig
	feed     *Feed
	hub      *Hub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// New creates a server for feed. Nothing listens until Run.
func New(cfg config.FeedConfig, feed *Feed, logger *zap.Logger) *Server {
	return &Server{
		cfg:  cfg,
		feed: feed,
		hub:  newHub(logger),
		upgrader: websocket.Upgrader{
			// the feed is read-only game state
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Handler returns the routes: /ws for the socket, /frame for a one-off
// JSON frame and /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	mux.HandleFunc("/frame", s.serveFrame)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// Start runs the hub and the broadcast loop until ctx is done. When step
// is true the fight also advances every StepInterval.
func (s *Server) Start(ctx context.Context, step bool) {
	go s.hub.run(ctx)
	go s.broadcastLoop(ctx)
	if step {
		go func() {
			if err := s.feed.Run(ctx, s.cfg.StepInterval); err != nil && !errors.Is(err, context.Canceled) {
				s.logger.Error("feed stopped", zap.Error(err))
			}
			s.broadcastFrame()
		}()
	}
}

// Run serves until ctx is done and then shuts the HTTP server down.
func (s *Server) Run(ctx context.Context) error {
	s.Start(ctx, true)

	srv := &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting feed server", zap.String("address", s.cfg.Address))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down feed server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// broadcastLoop pushes a frame every BroadcastInterval when the fight has
// moved since the last one.
func (s *Server) broadcastLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.BroadcastInterval)
	defer ticker.Stop()

	last := -1
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if step := s.feed.Step(); step != last {
				last = step
				s.broadcastFrame()
			}
		}
	}
}

func (s *Server) broadcastFrame() {
	s.hub.publish(encode(WSMessage{Type: MsgFrame, Data: s.feed.Frame()}))
}

func (s *Server) handleMessage(client *Client, msg WSMessage) {
	s.logger.Debug("received message", zap.String("type", msg.Type), zap.String("client_id", client.id))

	switch msg.Type {
	case MsgSnapshot:
		client.reply(encode(WSMessage{Type: MsgFrame, ClientID: client.id, Data: s.feed.Frame()}))

	case MsgPause, MsgResume:
		s.feed.SetPaused(msg.Type == MsgPause)
		s.broadcastFrame()

	case MsgStep:
		if err := s.feed.Advance(); err != nil {
			client.reply(encode(WSMessage{Type: MsgError, ClientID: client.id, Data: err.Error()}))
			return
		}
		s.broadcastFrame()

	default:
		client.reply(encode(WSMessage{Type: MsgError, ClientID: client.id, Data: "unknown message type " + msg.Type}))
	}
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := newClient(conn)
	if !s.hub.join(client) {
		conn.Close()
		return
	}
	client.reply(encode(WSMessage{Type: MsgFrame, ClientID: client.id, Data: s.feed.Frame()}))

	go client.writePump(s.hub)
	go client.readPump(s)
}

func (s *Server) serveFrame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.feed.Frame()); err != nil {
		s.logger.Warn("failed to write frame", zap.Error(err))
	}
}
