package domain

import "time"

type Room struct {
	ID           string
	Host         ParticipantID
	VideoURL     string
	VideoState   VideoState
	Participants []Participant
	Pending      []PendingRequest
	Messages     []ChatMessage
	CreatedAt    time.Time
}

// VideoState заменяется целиком, поля по отдельности не обновляются.
type VideoState struct {
	Playing     bool    `json:"playing"`
	CurrentTime float64 `json:"currentTime"`
}
