package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/watchparty/sync-service/internal/domain"
	"github.com/watchparty/sync-service/internal/event"
	"github.com/watchparty/sync-service/internal/service"
)

type Server struct {
	upgrader websocket.Upgrader
	hub      *Hub

	rooms *service.RoomService
	joins *service.JoinService
	sync  *service.SyncService
	chat  *service.ChatService

	pingEvery  time.Duration
	maxMessage int64
}

func NewServer(hub *Hub, rooms *service.RoomService, joins *service.JoinService, sync *service.SyncService, chat *service.ChatService, pingEvery time.Duration, maxMessage int64) *Server {
	if pingEvery <= 0 {
		pingEvery = 15 * time.Second
	}
	if maxMessage <= 0 {
		maxMessage = 64 << 10
	}
	return &Server{
		hub:   hub,
		rooms: rooms,
		joins: joins,
		sync:  sync,
		chat:  chat,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		pingEvery:  pingEvery,
		maxMessage: maxMessage,
	}
}

// WS endpoint: GET /ws
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам отвечает клиенту при ошибке
		slog.Warn("ws upgrade failed", "err", err)
		return
	}

	// handle живёт ровно столько, сколько соединение
	c := newWSConn(conn, domain.ConnectionHandle(uuid.New().String()))
	s.hub.Add(c)
	slog.Debug("ws connected", "handle", c.Handle())

	go s.writeLoop(r.Context(), c)
	s.readLoop(c)

	s.hub.Remove(c)
	s.rooms.HandleDisconnect(c.Handle())
	slog.Debug("ws disconnected", "handle", c.Handle())

	if err := c.Close(); err != nil {
		slog.Debug("ws close failed", "handle", c.Handle(), "err", err)
	}
}

func (s *Server) readLoop(c *wsConn) {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(s.maxMessage)
	c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		var ev event.Event
		if err := json.Unmarshal(data, &ev); err != nil {
			continue
		}
		s.dispatch(c.Handle(), ev)
	}
}

// dispatch маршрутизирует входящее событие в ровно один сервис.
// Кривой payload и незнакомый тип молча игнорируются.
func (s *Server) dispatch(h domain.ConnectionHandle, ev event.Event) {
	switch ev.Type {
	case event.TypeCreateRoom:
		var p event.CreateRoomPayload
		if event.Decode(ev.Payload, &p) != nil {
			return
		}
		if _, err := s.rooms.Create(h, p.Username, p.VideoURL); err != nil {
			slog.Error("create room failed", "handle", h, "err", err)
		}

	case event.TypeJoinRequest:
		var p event.JoinRequestPayload
		if event.Decode(ev.Payload, &p) != nil {
			return
		}
		s.joins.Request(p.RoomID, h, p.Username)

	case event.TypeApproveJoin:
		var p event.JoinDecisionPayload
		if event.Decode(ev.Payload, &p) != nil {
			return
		}
		s.joins.Approve(p.RoomID, h, domain.ConnectionHandle(p.RequesterID))

	case event.TypeRejectJoin:
		var p event.JoinDecisionPayload
		if event.Decode(ev.Payload, &p) != nil {
			return
		}
		s.joins.Reject(p.RoomID, h, domain.ConnectionHandle(p.RequesterID))

	case event.TypeVideoSync:
		var st domain.VideoState
		if event.Decode(ev.Payload, &st) != nil {
			return
		}
		s.sync.PushState(h, st)

	case event.TypeSetVideoURL:
		var p event.SetVideoURLPayload
		if event.Decode(ev.Payload, &p) != nil {
			return
		}
		s.sync.SetURL(p.RoomID, h, p.VideoURL)

	case event.TypeChatMessage:
		var text string
		if event.Decode(ev.Payload, &text) != nil {
			return
		}
		s.chat.Post(h, text)

	default:
		// ignore
	}
}

func (s *Server) writeLoop(ctx context.Context, c *wsConn) {
	ticker := time.NewTicker(s.pingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
		case <-ctx.Done():
			return
		case <-c.closed:
			return
		}
	}
}

// --- conn ---

type wsConn struct {
	conn   *websocket.Conn
	handle domain.ConnectionHandle
	sendMu chan struct{}
	closed chan struct{}
}

func newWSConn(c *websocket.Conn, handle domain.ConnectionHandle) *wsConn {
	return &wsConn{
		conn:   c,
		handle: handle,
		sendMu: make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
}

func (c *wsConn) Send(ev event.Event) error {
	c.sendMu <- struct{}{}
	defer func() { <-c.sendMu }()
	c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))

	return c.conn.WriteJSON(ev)
}

func (c *wsConn) Close() error {
	select {
	case <-c.closed:
	default:
		close(c.closed)
	}

	return c.conn.Close()
}

func (c *wsConn) Handle() domain.ConnectionHandle { return c.handle }
