package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"github.com/m-waqas88/messenger/internal/api/utility"
)

const presencePingInterval = 30 * time.Second

// WebsocketSubscribeHandler ties presence to connection lifetime: the user
// is marked online in the registry while the socket is open and offline once
// it closes. A second concurrent subscription for the same user is rejected
// with a conflict.
func (s *Server) WebsocketSubscribeHandler(w http.ResponseWriter, r *http.Request) {
	u := utility.ContextGetUser(r.Context())
	if !s.addSubscriber(u.ID) {
		s.redundantSubscriptionResponse(w, r)
		return
	}
	defer s.removeSubscriber(u.ID)

	conn, err := websocket.Accept(w, r, s.wsAcceptOpts)
	if err != nil {
		slog.Error(err.Error())
		return
	}
	defer conn.CloseNow()

	if err = s.Presence.SetOnline(r.Context(), u.ID); err != nil {
		slog.Error(err.Error())
		conn.Close(websocket.StatusInternalError, "presence registration failed")
		return
	}
	defer func() {
		// the request context is gone once the client disconnects
		offCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Presence.SetOffline(offCtx, u.ID); err != nil {
			slog.Error(err.Error())
		}
	}()

	s.holdSubscription(r.Context(), conn)
}

// holdSubscription pings the peer until it goes away or the server shuts
// down, no application data flows over the socket.
func (s *Server) holdSubscription(reqCtx context.Context, conn *websocket.Conn) {
	done := make(chan struct{})
	s.BackgroundTask.Run(func(shtdwnCtx context.Context) {
		readCtx := conn.CloseRead(reqCtx)
		t := time.NewTicker(presencePingInterval)
		defer t.Stop()
		defer close(done)
		for {
			select {
			case <-t.C:
				if err := pingWithTimeout(conn, 2*time.Second); err != nil {
					return
				}
			case <-readCtx.Done():
				return
			case <-shtdwnCtx.Done():
				conn.Close(websocket.StatusGoingAway, "server shutting down")
				return
			}
		}
	})
	<-done
}

func (s *Server) addSubscriber(userID string) bool {
	s.SubsMu.Lock()
	defer s.SubsMu.Unlock()
	if _, ok := s.Subscribers[userID]; ok {
		return false
	}
	s.Subscribers[userID] = struct{}{}
	return true
}

func (s *Server) removeSubscriber(userID string) {
	s.SubsMu.Lock()
	delete(s.Subscribers, userID)
	s.SubsMu.Unlock()
}

func pingWithTimeout(conn *websocket.Conn, t time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), t)
	defer cancel()
	return conn.Ping(ctx)
}
