package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/coder/websocket"

	"github.com/m-waqas88/messenger/internal/api/facade"
	"github.com/m-waqas88/messenger/internal/api/utility"
	"github.com/m-waqas88/messenger/internal/common"
)

// PresenceConnector is the slice of the presence registry the websocket
// lifecycle drives, membership add on subscribe and remove on disconnect.
type PresenceConnector interface {
	SetOnline(ctx context.Context, userID string) error
	SetOffline(ctx context.Context, userID string) error
}

type Server struct {
	Config         *utility.Config
	BackgroundTask *common.BackgroundTask
	Facade         *facade.Facade
	Presence       PresenceConnector
	wsAcceptOpts   *websocket.AcceptOptions

	SubsMu      sync.Mutex
	Subscribers map[string]struct{} // keys are userID
}

func NewServer(cfg *utility.Config, bt *common.BackgroundTask, facade *facade.Facade, presence PresenceConnector) *Server {
	return &Server{
		Config:         cfg,
		BackgroundTask: bt,
		Facade:         facade,
		Presence:       presence,
		wsAcceptOpts: &websocket.AcceptOptions{
			CompressionMode:    websocket.CompressionContextTakeover,
			InsecureSkipVerify: true,
		},
		Subscribers: make(map[string]struct{}),
	}
}

func (s *Server) Serve() {
	srv := &http.Server{
		Addr:         fmt.Sprint(":", s.Config.Port),
		Handler:      s.routes(),
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 6 * time.Second,
		IdleTimeout:  time.Minute,
	}
	shtdwnErr := make(chan error)
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		sig := <-quit
		slog.Info("shutting down server", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.BackgroundTask.Shutdown(5 * time.Second)
		shtdwnErr <- srv.Shutdown(ctx)
	}()
	slog.Info("starting server", "addr", srv.Addr, "env", s.Config.ENV)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		slog.Error(err.Error())
		os.Exit(1)
	}
	if err := <-shtdwnErr; err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
	slog.Info("stopped server", "addr", srv.Addr)
}
