package registry

import (
	"time"

	"github.com/watchparty/sync-service/internal/domain"
)

// RoomSnapshot — копия состояния комнаты на момент операции. Комнаты не
// покидают реестр, наружу отдаются только снапшоты.
type RoomSnapshot struct {
	ID           string
	Host         domain.ParticipantID
	VideoURL     string
	VideoState   domain.VideoState
	Participants []domain.Participant
	Pending      []domain.PendingRequest
	Messages     []domain.ChatMessage
	CreatedAt    time.Time
}

func snapshot(r *domain.Room) *RoomSnapshot {
	s := &RoomSnapshot{
		ID:           r.ID,
		Host:         r.Host,
		VideoURL:     r.VideoURL,
		VideoState:   r.VideoState,
		Participants: make([]domain.Participant, len(r.Participants)),
		Pending:      make([]domain.PendingRequest, len(r.Pending)),
		Messages:     make([]domain.ChatMessage, len(r.Messages)),
		CreatedAt:    r.CreatedAt,
	}
	copy(s.Participants, r.Participants)
	copy(s.Pending, r.Pending)
	copy(s.Messages, r.Messages)
	return s
}

// ParticipantHandles возвращает handle каждого участника, включая хоста.
func (s *RoomSnapshot) ParticipantHandles() []domain.ConnectionHandle {
	out := make([]domain.ConnectionHandle, 0, len(s.Participants))
	for _, p := range s.Participants {
		out = append(out, p.ID.Handle())
	}
	return out
}

// GuestHandles возвращает handle каждого участника, кроме хоста.
func (s *RoomSnapshot) GuestHandles() []domain.ConnectionHandle {
	out := make([]domain.ConnectionHandle, 0, len(s.Participants))
	for _, p := range s.Participants {
		if p.ID != s.Host {
			out = append(out, p.ID.Handle())
		}
	}
	return out
}
