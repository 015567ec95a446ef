package registry

import "github.com/watchparty/sync-service/internal/domain"

// Store — хранилище комнат. Сейчас map в памяти; интерфейс оставлен, чтобы
// хранилище можно было подменить, не трогая логику комнат. Store не делает
// собственной синхронизации: весь доступ сериализует RoomRegistry.
type Store interface {
	Get(id string) (*domain.Room, bool)
	Put(room *domain.Room)
	Delete(id string)
	// ForEach обходит комнаты, пока fn возвращает true.
	ForEach(fn func(*domain.Room) bool)
	Len() int
}

type MemoryStore struct {
	rooms map[string]*domain.Room
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rooms: make(map[string]*domain.Room)}
}

func (s *MemoryStore) Get(id string) (*domain.Room, bool) {
	r, ok := s.rooms[id]
	return r, ok
}

func (s *MemoryStore) Put(room *domain.Room) {
	s.rooms[room.ID] = room
}

func (s *MemoryStore) Delete(id string) {
	delete(s.rooms, id)
}

func (s *MemoryStore) ForEach(fn func(*domain.Room) bool) {
	for _, r := range s.rooms {
		if !fn(r) {
			return
		}
	}
}

func (s *MemoryStore) Len() int { return len(s.rooms) }
