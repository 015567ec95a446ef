package event

import "github.com/watchparty/sync-service/internal/domain"

// --- входящие ---

type CreateRoomPayload struct {
	Username string `json:"username"`
	VideoURL string `json:"videoUrl"`
}

type JoinRequestPayload struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
}

// JoinDecisionPayload — общий формат approve_join и reject_join.
type JoinDecisionPayload struct {
	RoomID      string `json:"roomId"`
	RequesterID string `json:"requesterSocketId"`
}

type SetVideoURLPayload struct {
	RoomID   string `json:"roomId"`
	VideoURL string `json:"videoUrl"`
}

// --- исходящие ---

type JoinApprovedPayload struct {
	VideoURL   string               `json:"videoUrl"`
	VideoState domain.VideoState    `json:"videoState"`
	Users      []domain.Participant `json:"users"`
	Messages   []domain.ChatMessage `json:"messages"`
}

type RoomDataPayload struct {
	Users   []domain.Participant    `json:"users"`
	Pending []domain.PendingRequest `json:"pendingRequests"`
}

type UserEventPayload struct {
	Username string               `json:"username"`
	SocketID domain.ParticipantID `json:"socketId"`
}

type VideoURLUpdatedPayload struct {
	VideoURL   string            `json:"videoUrl"`
	VideoState domain.VideoState `json:"videoState"`
}
