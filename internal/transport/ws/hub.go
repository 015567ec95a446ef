package ws

import (
	"sync"

	"github.com/watchparty/sync-service/internal/domain"
	"github.com/watchparty/sync-service/internal/event"
)

type Conn interface {
	Send(ev event.Event) error
	Close() error
	Handle() domain.ConnectionHandle
}

// Hub держит живые соединения по handle. Доставка best-effort: ошибка
// записи одного получателя не трогает остальных.
type Hub struct {
	mu    sync.RWMutex
	conns map[domain.ConnectionHandle]Conn
}

func NewHub() *Hub {
	return &Hub{conns: make(map[domain.ConnectionHandle]Conn)}
}

func (h *Hub) Add(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c.Handle()] = c
}

func (h *Hub) Remove(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, c.Handle())
}

func (h *Hub) Send(to domain.ConnectionHandle, ev event.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if c, ok := h.conns[to]; ok {
		_ = c.Send(ev) // best-effort
	}
}

func (h *Hub) SendTo(handles []domain.ConnectionHandle, ev event.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, to := range handles {
		if c, ok := h.conns[to]; ok {
			_ = c.Send(ev)
		}
	}
}
