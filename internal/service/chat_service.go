package service

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/watchparty/sync-service/internal/domain"
	"github.com/watchparty/sync-service/internal/event"
	"github.com/watchparty/sync-service/internal/registry"
)

const (
	msgChatNoRoom  = "Could not send message: Not in a valid room."
	msgChatTooLong = "Message is too long."
)

type ChatService struct {
	registry *registry.RoomRegistry
	bc       Broadcaster
	maxLen   int
}

func NewChatService(reg *registry.RoomRegistry, bc Broadcaster, maxLen int) *ChatService {
	if maxLen <= 0 {
		maxLen = 4000
	}
	return &ChatService{registry: reg, bc: bc, maxLen: maxLen}
}

// Post добавляет сообщение в лог комнаты и рассылает его всем участникам,
// включая отправителя: клиенты рендерят серверное эхо, а не локальную
// копию, чтобы порядок был каноническим.
func (s *ChatService) Post(h domain.ConnectionHandle, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if len(text) > s.maxLen {
		errorTo(s.bc, h, msgChatTooLong)
		return
	}

	res, err := s.registry.AppendMessage(h, text)
	if errors.Is(err, domain.ErrNotInRoom) {
		errorTo(s.bc, h, msgChatNoRoom)
		return
	}

	s.bc.SendTo(res.Room.ParticipantHandles(), event.Event{Type: event.TypeChatMessage, Payload: res.Message})
	slog.Debug("chat message", "room", res.Room.ID, "author", res.Message.Author, "len", len(text))
}
