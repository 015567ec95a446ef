package service

import (
	"errors"
	"log/slog"

	"github.com/watchparty/sync-service/internal/domain"
	"github.com/watchparty/sync-service/internal/event"
	"github.com/watchparty/sync-service/internal/registry"
)

// Тексты, которые видит пользователь. Совпадают с тем, что рендерит клиент.
const (
	msgRoomMissing    = "Room does not exist."
	msgPendingSent    = "Your join request has been sent to the host. Please wait for approval."
	msgPendingStill   = "Your join request is still pending host approval."
	msgRejectedByHost = "Host rejected your request."
	msgNotHost        = "You are not the host of this room."
	msgRequestGone    = "Join request not found or already processed."
	msgRejectNotFound = "Join request not found."
)

type JoinService struct {
	registry *registry.RoomRegistry
	bc       Broadcaster
}

func NewJoinService(reg *registry.RoomRegistry, bc Broadcaster) *JoinService {
	return &JoinService{registry: reg, bc: bc}
}

// Request двигает пару (комната, handle) по машине состояний
// Unknown → Pending → {Approved, Rejected}. Участник, пришедший повторно,
// минует pending и сразу получает снапшот (переподключение без повторного
// одобрения).
func (s *JoinService) Request(roomID string, h domain.ConnectionHandle, username string) {
	res := s.registry.RequestJoin(roomID, h, username)

	switch res.Outcome {
	case registry.JoinRoomMissing:
		s.bc.Send(h, event.Event{Type: event.TypeJoinRejected, Payload: msgRoomMissing})

	case registry.JoinAlreadyMember:
		s.bc.Send(h, joinApproved(res.Room))
		s.bc.SendTo(res.Room.ParticipantHandles(), roomData(res.Room))
		slog.Debug("rejoin without approval", "room", roomID, "user", username)

	case registry.JoinAlreadyPending:
		// дубликат: запись не плодим, просто напоминаем статус
		s.bc.Send(h, event.Event{Type: event.TypeJoinPending, Payload: msgPendingStill})

	case registry.JoinQueued:
		s.bc.Send(h, event.Event{Type: event.TypeJoinPending, Payload: msgPendingSent})
		host := res.Room.Host.Handle()
		s.bc.Send(host, event.Event{
			Type:    event.TypeNewJoinRequest,
			Payload: domain.PendingRequest{ID: h.ParticipantID(), DisplayName: username},
		})
		s.bc.Send(host, roomData(res.Room))
		slog.Info("join request queued", "room", roomID, "user", username)
	}
}

// Approve: хост пускает просителя в комнату.
func (s *JoinService) Approve(roomID string, acting, target domain.ConnectionHandle) {
	res, err := s.registry.Approve(roomID, acting, target)
	switch {
	case errors.Is(err, domain.ErrNotHost):
		errorTo(s.bc, acting, msgNotHost)
		return
	case errors.Is(err, domain.ErrRequestNotFound):
		errorTo(s.bc, acting, msgRequestGone)
		return
	}

	// одобренному — полный снапшот, остальным — факт входа и свежий ростер
	s.bc.Send(target, joinApproved(res.Room))
	s.bc.SendTo(res.Room.ParticipantHandles(), event.Event{
		Type:    event.TypeUserJoined,
		Payload: event.UserEventPayload{Username: res.Target.DisplayName, SocketID: res.Target.ID},
	})
	s.bc.SendTo(res.Room.ParticipantHandles(), roomData(res.Room))
	slog.Info("join approved", "room", roomID, "user", res.Target.DisplayName)
}

// Reject: хост отказывает; проситель никуда не добавляется.
func (s *JoinService) Reject(roomID string, acting, target domain.ConnectionHandle) {
	res, err := s.registry.Reject(roomID, acting, target)
	switch {
	case errors.Is(err, domain.ErrNotHost):
		errorTo(s.bc, acting, msgNotHost)
		return
	case errors.Is(err, domain.ErrRequestNotFound):
		errorTo(s.bc, acting, msgRejectNotFound)
		return
	}

	s.bc.Send(target, event.Event{Type: event.TypeJoinRejected, Payload: msgRejectedByHost})
	s.bc.Send(acting, roomData(res.Room))
	slog.Info("join rejected", "room", roomID, "user", res.Target.DisplayName)
}
