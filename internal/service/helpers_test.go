package service

import (
	"testing"

	"github.com/watchparty/sync-service/internal/domain"
	"github.com/watchparty/sync-service/internal/event"
	"github.com/watchparty/sync-service/internal/registry"
)

type sent struct {
	To domain.ConnectionHandle
	Ev event.Event
}

// recorder — Broadcaster для тестов: запоминает всё отправленное.
type recorder struct {
	events []sent
}

func (r *recorder) Send(h domain.ConnectionHandle, ev event.Event) {
	r.events = append(r.events, sent{To: h, Ev: ev})
}

func (r *recorder) SendTo(handles []domain.ConnectionHandle, ev event.Event) {
	for _, h := range handles {
		r.Send(h, ev)
	}
}

func (r *recorder) reset() { r.events = nil }

// byType возвращает все события данного типа.
func (r *recorder) byType(typ string) []sent {
	var out []sent
	for _, s := range r.events {
		if s.Ev.Type == typ {
			out = append(out, s)
		}
	}
	return out
}

// toHandle возвращает все события, ушедшие на handle.
func (r *recorder) toHandle(h domain.ConnectionHandle) []sent {
	var out []sent
	for _, s := range r.events {
		if s.To == h {
			out = append(out, s)
		}
	}
	return out
}

func (r *recorder) one(t *testing.T, typ string) sent {
	t.Helper()
	got := r.byType(typ)
	if len(got) != 1 {
		t.Fatalf("want exactly one %q, got %d: %+v", typ, len(got), got)
	}
	return got[0]
}

func (r *recorder) none(t *testing.T, typ string) {
	t.Helper()
	if got := r.byType(typ); len(got) != 0 {
		t.Fatalf("want no %q, got %+v", typ, got)
	}
}

type fixture struct {
	reg   *registry.RoomRegistry
	bc    *recorder
	rooms *RoomService
	joins *JoinService
	sync  *SyncService
	chat  *ChatService
}

func newFixture() *fixture {
	reg := registry.New(registry.NewMemoryStore(), 7)
	bc := &recorder{}
	return &fixture{
		reg:   reg,
		bc:    bc,
		rooms: NewRoomService(reg, bc),
		joins: NewJoinService(reg, bc),
		sync:  NewSyncService(reg, bc),
		chat:  NewChatService(reg, bc, 0),
	}
}

// createRoom поднимает комнату с хостом h и сбрасывает recorder.
func (f *fixture) createRoom(t *testing.T, h domain.ConnectionHandle, username, url string) string {
	t.Helper()
	roomID, err := f.rooms.Create(h, username, url)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	f.bc.reset()
	return roomID
}

// admit проводит p через полный цикл request+approve и сбрасывает recorder.
func (f *fixture) admit(t *testing.T, roomID string, host, p domain.ConnectionHandle, username string) {
	t.Helper()
	f.joins.Request(roomID, p, username)
	f.joins.Approve(roomID, host, p)
	if _, ok := f.reg.FindByHandle(p); !ok {
		t.Fatalf("admit: %q not a participant", p)
	}
	f.bc.reset()
}

func decodeInto(t *testing.T, payload any, dst any) {
	t.Helper()
	if err := event.Decode(payload, dst); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
}
