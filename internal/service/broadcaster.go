package service

import (
	"github.com/watchparty/sync-service/internal/domain"
	"github.com/watchparty/sync-service/internal/event"
	"github.com/watchparty/sync-service/internal/registry"
)

// Broadcaster — fire-and-forget доставка событий. Без подтверждений,
// ретраев и backpressure: медленный получатель не задерживает остальных.
type Broadcaster interface {
	Send(h domain.ConnectionHandle, ev event.Event)
	SendTo(handles []domain.ConnectionHandle, ev event.Event)
}

func roomData(room *registry.RoomSnapshot) event.Event {
	return event.Event{
		Type: event.TypeRoomDataUpdate,
		Payload: event.RoomDataPayload{
			Users:   room.Participants,
			Pending: room.Pending,
		},
	}
}

func joinApproved(room *registry.RoomSnapshot) event.Event {
	return event.Event{
		Type: event.TypeJoinApproved,
		Payload: event.JoinApprovedPayload{
			VideoURL:   room.VideoURL,
			VideoState: room.VideoState,
			Users:      room.Participants,
			Messages:   room.Messages,
		},
	}
}

// errorTo отправляет error_message только виновнику, ошибка никуда дальше
// не распространяется.
func errorTo(bc Broadcaster, h domain.ConnectionHandle, msg string) {
	bc.Send(h, event.Event{Type: event.TypeError, Payload: msg})
}
