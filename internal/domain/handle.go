package domain

// ConnectionHandle — идентификатор живого соединения, выдаётся транспортом.
type ConnectionHandle string

// ParticipantID — доменный ключ участника. Совпадает по значению с handle,
// но доменная модель не завязана на схему идентификаторов транспорта.
type ParticipantID string

func (h ConnectionHandle) ParticipantID() ParticipantID { return ParticipantID(h) }

func (id ParticipantID) Handle() ConnectionHandle { return ConnectionHandle(id) }
