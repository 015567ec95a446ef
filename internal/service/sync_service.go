package service

import (
	"errors"
	"log/slog"

	"github.com/watchparty/sync-service/internal/domain"
	"github.com/watchparty/sync-service/internal/event"
	"github.com/watchparty/sync-service/internal/registry"
)

const (
	msgURLNotHost = "Only the host can change the video URL."
	msgURLEmpty   = "Video URL cannot be empty."
)

// SyncService ретранслирует авторитетное состояние плеера хоста остальной
// комнате: at-least-once, последнее состояние побеждает, промежуточные не
// накапливаются.
type SyncService struct {
	registry *registry.RoomRegistry
	bc       Broadcaster
}

func NewSyncService(reg *registry.RoomRegistry, bc Broadcaster) *SyncService {
	return &SyncService{registry: reg, bc: bc}
}

// PushState перезаписывает videoState комнаты, которую хостит handle, и
// рассылает его всем, кроме самого хоста. Событие от не-хоста — не ошибка:
// доверяем только каналу хоста, остальное молча игнорируем.
func (s *SyncService) PushState(h domain.ConnectionHandle, state domain.VideoState) {
	room, ok := s.registry.SetVideoState(h, state)
	if !ok {
		return
	}
	s.bc.SendTo(room.GuestHandles(), event.Event{Type: event.TypeVideoSync, Payload: state})
}

// SetURL меняет источник и сбрасывает состояние плеера. Рассылается всем,
// включая хоста: его локальный плеер сбрасывается той же командой.
func (s *SyncService) SetURL(roomID string, h domain.ConnectionHandle, url string) {
	room, err := s.registry.SetVideoURL(roomID, h, url)
	switch {
	case errors.Is(err, domain.ErrNotHost):
		errorTo(s.bc, h, msgURLNotHost)
		return
	case errors.Is(err, domain.ErrEmptyURL):
		errorTo(s.bc, h, msgURLEmpty)
		return
	}

	s.bc.SendTo(room.ParticipantHandles(), event.Event{
		Type:    event.TypeVideoURLUpdate,
		Payload: event.VideoURLUpdatedPayload{VideoURL: room.VideoURL, VideoState: room.VideoState},
	})
	slog.Info("video url updated", "room", roomID, "video", url)
}
