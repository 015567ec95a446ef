package service

import (
	"fmt"
	"log/slog"

	"github.com/watchparty/sync-service/internal/domain"
	"github.com/watchparty/sync-service/internal/event"
	"github.com/watchparty/sync-service/internal/registry"
)

const msgRoomClosed = "Host disconnected. Room closed."

// hostSuffix дописывается к имени создателя, чтобы в списках он читался как админ.
const hostSuffix = " - admin"

type RoomService struct {
	registry *registry.RoomRegistry
	bc       Broadcaster
}

func NewRoomService(reg *registry.RoomRegistry, bc Broadcaster) *RoomService {
	return &RoomService{registry: reg, bc: bc}
}

// Create создаёт комнату; вызвавший становится хостом.
func (s *RoomService) Create(h domain.ConnectionHandle, username, videoURL string) (string, error) {
	room, err := s.registry.CreateRoom(h, username+hostSuffix, videoURL)
	if err != nil {
		return "", fmt.Errorf("registry.CreateRoom: %w", err)
	}

	s.bc.Send(h, event.Event{Type: event.TypeRoomCreated, Payload: room.ID})
	s.bc.SendTo(room.ParticipantHandles(), event.Event{
		Type:    event.TypeUserJoined,
		Payload: event.UserEventPayload{Username: room.Participants[0].DisplayName, SocketID: room.Host},
	})
	s.bc.SendTo(room.ParticipantHandles(), roomData(room))

	slog.Info("room created", "room", room.ID, "host", h, "video", videoURL)
	return room.ID, nil
}

// HandleDisconnect разматывает состояние комнат после обрыва соединения.
// Порядок поиска фиксированный, первый матч терминален.
func (s *RoomService) HandleDisconnect(h domain.ConnectionHandle) {
	// 1. handle хостит комнату: комната умирает вместе с ним
	if room, ok := s.registry.HostedBy(h); ok {
		s.bc.SendTo(room.ParticipantHandles(), event.Event{Type: event.TypeRoomClosed, Payload: msgRoomClosed})
		s.registry.Destroy(room.ID)
		slog.Info("room closed, host disconnected", "room", room.ID, "host", h)
		return
	}

	// 2. handle — рядовой участник
	if res, ok := s.registry.RemoveParticipant(h); ok {
		s.bc.SendTo(res.Room.ParticipantHandles(), event.Event{
			Type:    event.TypeUserLeft,
			Payload: event.UserEventPayload{Username: res.Left.DisplayName, SocketID: res.Left.ID},
		})
		s.bc.SendTo(res.Room.ParticipantHandles(), roomData(res.Room))
		slog.Info("participant left", "room", res.Room.ID, "user", res.Left.DisplayName)
		return
	}

	// 3. handle ждал одобрения: об отмене узнаёт только хост
	if res, ok := s.registry.RemovePending(h); ok {
		s.bc.Send(res.Room.Host.Handle(), roomData(res.Room))
		slog.Debug("pending request cancelled", "room", res.Room.ID, "user", res.Dropped.DisplayName)
		return
	}

	// 4. handle нигде не состоял
}
