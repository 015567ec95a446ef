package registry

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/watchparty/sync-service/internal/domain"
)

const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// RoomRegistry владеет всеми комнатами. Один мьютекс сериализует каждую
// составную операцию (поиск + мутация + снапшот), поэтому обработчики
// событий атомарны друг относительно друга.
type RoomRegistry struct {
	mu    sync.Mutex
	store Store
	idLen int
}

func New(store Store, idLen int) *RoomRegistry {
	if idLen <= 0 {
		idLen = 7
	}
	return &RoomRegistry{store: store, idLen: idLen}
}

// CreateRoom регистрирует комнату, создатель сразу становится хостом.
func (r *RoomRegistry) CreateRoom(host domain.ConnectionHandle, displayName, videoURL string) (*RoomSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, err := r.newRoomID()
	if err != nil {
		return nil, fmt.Errorf("generate room id: %w", err)
	}

	room := &domain.Room{
		ID:         id,
		Host:       host.ParticipantID(),
		VideoURL:   videoURL,
		VideoState: domain.VideoState{},
		Participants: []domain.Participant{
			{ID: host.ParticipantID(), DisplayName: displayName, IsHost: true},
		},
		CreatedAt: time.Now(),
	}
	r.store.Put(room)
	return snapshot(room), nil
}

// newRoomID сэмплирует алфавит, пока не найдёт свободный идентификатор.
// Байты из неполного хвоста диапазона отбрасываются, чтобы остаток от
// деления не перекашивал распределение символов. Вызывается под mu.
func (r *RoomRegistry) newRoomID() (string, error) {
	const maxByte = 256 - 256%len(idAlphabet)
	for {
		id := make([]byte, 0, r.idLen)
		for len(id) < r.idLen {
			buf := make([]byte, r.idLen)
			if _, err := rand.Read(buf); err != nil {
				return "", err
			}
			for _, b := range buf {
				if int(b) >= maxByte {
					continue
				}
				id = append(id, idAlphabet[int(b)%len(idAlphabet)])
				if len(id) == r.idLen {
					break
				}
			}
		}
		if _, exists := r.store.Get(string(id)); !exists {
			return string(id), nil
		}
	}
}

// Snapshot возвращает копию комнаты по id.
func (r *RoomRegistry) Snapshot(roomID string) (*RoomSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.store.Get(roomID)
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return snapshot(room), nil
}

// FindByHandle возвращает id комнаты, в которой handle состоит участником.
func (r *RoomRegistry) FindByHandle(h domain.ConnectionHandle) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room := r.findParticipantRoom(h.ParticipantID())
	if room == nil {
		return "", false
	}
	return room.ID, true
}

// HostedBy возвращает комнату, у которой handle является хостом.
func (r *RoomRegistry) HostedBy(h domain.ConnectionHandle) (*RoomSnapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var found *domain.Room
	r.store.ForEach(func(room *domain.Room) bool {
		if room.Host == h.ParticipantID() {
			found = room
			return false
		}
		return true
	})
	if found == nil {
		return nil, false
	}
	return snapshot(found), true
}

// Destroy удаляет комнату из всех таблиц. Идемпотентна.
func (r *RoomRegistry) Destroy(roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store.Delete(roomID)
}

func (r *RoomRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Len()
}

type JoinOutcome int

const (
	JoinRoomMissing JoinOutcome = iota
	JoinAlreadyMember
	JoinAlreadyPending
	JoinQueued
)

type JoinResult struct {
	Outcome JoinOutcome
	Room    *RoomSnapshot // nil при JoinRoomMissing
}

// RequestJoin переводит пару (комната, handle) в состояние pending.
// Повторный запрос идемпотентен: дубликат записи не создаётся.
func (r *RoomRegistry) RequestJoin(roomID string, h domain.ConnectionHandle, displayName string) JoinResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.store.Get(roomID)
	if !ok {
		return JoinResult{Outcome: JoinRoomMissing}
	}

	pid := h.ParticipantID()
	for _, p := range room.Participants {
		if p.ID == pid {
			return JoinResult{Outcome: JoinAlreadyMember, Room: snapshot(room)}
		}
	}
	for _, p := range room.Pending {
		if p.ID == pid {
			return JoinResult{Outcome: JoinAlreadyPending, Room: snapshot(room)}
		}
	}

	room.Pending = append(room.Pending, domain.PendingRequest{ID: pid, DisplayName: displayName})
	return JoinResult{Outcome: JoinQueued, Room: snapshot(room)}
}

type DecisionResult struct {
	Target domain.PendingRequest
	Room   *RoomSnapshot
}

// Approve переносит запись из pending в участники. Несуществующая комната
// сворачивается в ErrNotHost: чужим не сообщаем, есть ли такая комната.
func (r *RoomRegistry) Approve(roomID string, acting, target domain.ConnectionHandle) (*DecisionResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.store.Get(roomID)
	if !ok || room.Host != acting.ParticipantID() {
		return nil, domain.ErrNotHost
	}

	idx := pendingIndex(room, target.ParticipantID())
	if idx < 0 {
		return nil, domain.ErrRequestNotFound
	}

	req := room.Pending[idx]
	room.Pending = append(room.Pending[:idx], room.Pending[idx+1:]...)
	room.Participants = append(room.Participants, domain.Participant{
		ID:          req.ID,
		DisplayName: req.DisplayName,
		IsHost:      false,
	})
	return &DecisionResult{Target: req, Room: snapshot(room)}, nil
}

// Reject удаляет запись из pending; никуда больше она не попадает.
func (r *RoomRegistry) Reject(roomID string, acting, target domain.ConnectionHandle) (*DecisionResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.store.Get(roomID)
	if !ok || room.Host != acting.ParticipantID() {
		return nil, domain.ErrNotHost
	}

	idx := pendingIndex(room, target.ParticipantID())
	if idx < 0 {
		return nil, domain.ErrRequestNotFound
	}

	req := room.Pending[idx]
	room.Pending = append(room.Pending[:idx], room.Pending[idx+1:]...)
	return &DecisionResult{Target: req, Room: snapshot(room)}, nil
}

// SetVideoState перезаписывает состояние плеера комнаты, хостом которой
// является handle. false — handle не хостит ни одной комнаты.
func (r *RoomRegistry) SetVideoState(h domain.ConnectionHandle, state domain.VideoState) (*RoomSnapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var found *domain.Room
	r.store.ForEach(func(room *domain.Room) bool {
		if room.Host == h.ParticipantID() {
			found = room
			return false
		}
		return true
	})
	if found == nil {
		return nil, false
	}

	found.VideoState = state
	return snapshot(found), true
}

// SetVideoURL меняет источник и сбрасывает состояние плеера в ноль.
func (r *RoomRegistry) SetVideoURL(roomID string, acting domain.ConnectionHandle, url string) (*RoomSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.store.Get(roomID)
	if !ok || room.Host != acting.ParticipantID() {
		return nil, domain.ErrNotHost
	}
	if url == "" {
		return nil, domain.ErrEmptyURL
	}

	room.VideoURL = url
	room.VideoState = domain.VideoState{}
	return snapshot(room), nil
}

type MessageResult struct {
	Message domain.ChatMessage
	Room    *RoomSnapshot
}

// AppendMessage добавляет сообщение в лог комнаты, где handle состоит
// участником, и проставляет id и серверное время.
func (r *RoomRegistry) AppendMessage(h domain.ConnectionHandle, text string) (*MessageResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room := r.findParticipantRoom(h.ParticipantID())
	if room == nil {
		return nil, domain.ErrNotInRoom
	}

	var author string
	for _, p := range room.Participants {
		if p.ID == h.ParticipantID() {
			author = p.DisplayName
			break
		}
	}

	msg := domain.ChatMessage{
		ID:        uuid.New().String(),
		Author:    author,
		Text:      text,
		Timestamp: time.Now().UnixMilli(),
	}
	room.Messages = append(room.Messages, msg)
	return &MessageResult{Message: msg, Room: snapshot(room)}, nil
}

type LeaveResult struct {
	Left domain.Participant
	Room *RoomSnapshot // состояние после удаления
}

// RemoveParticipant убирает не-хоста из его комнаты. false — handle не
// состоит участником нигде (или хостит: хост снимается только через Destroy).
func (r *RoomRegistry) RemoveParticipant(h domain.ConnectionHandle) (*LeaveResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pid := h.ParticipantID()
	var res *LeaveResult
	r.store.ForEach(func(room *domain.Room) bool {
		if room.Host == pid {
			return true
		}
		for i, p := range room.Participants {
			if p.ID == pid {
				room.Participants = append(room.Participants[:i], room.Participants[i+1:]...)
				res = &LeaveResult{Left: p, Room: snapshot(room)}
				return false
			}
		}
		return true
	})
	return res, res != nil
}

type PendingDropResult struct {
	Dropped domain.PendingRequest
	Room    *RoomSnapshot
}

// RemovePending снимает незакрытый запрос на вход от handle.
func (r *RoomRegistry) RemovePending(h domain.ConnectionHandle) (*PendingDropResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pid := h.ParticipantID()
	var res *PendingDropResult
	r.store.ForEach(func(room *domain.Room) bool {
		for i, p := range room.Pending {
			if p.ID == pid {
				room.Pending = append(room.Pending[:i], room.Pending[i+1:]...)
				res = &PendingDropResult{Dropped: p, Room: snapshot(room)}
				return false
			}
		}
		return true
	})
	return res, res != nil
}

// findParticipantRoom ищет комнату, где pid состоит участником (хост тоже
// участник). Вызывается под mu.
func (r *RoomRegistry) findParticipantRoom(pid domain.ParticipantID) *domain.Room {
	var found *domain.Room
	r.store.ForEach(func(room *domain.Room) bool {
		for _, p := range room.Participants {
			if p.ID == pid {
				found = room
				return false
			}
		}
		return true
	})
	return found
}

func pendingIndex(room *domain.Room, pid domain.ParticipantID) int {
	for i, p := range room.Pending {
		if p.ID == pid {
			return i
		}
	}
	return -1
}
