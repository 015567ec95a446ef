package domain

type Participant struct {
	ID          ParticipantID `json:"id"`
	DisplayName string        `json:"username"`
	IsHost      bool          `json:"isHost"`
}

type PendingRequest struct {
	ID          ParticipantID `json:"requesterSocketId"`
	DisplayName string        `json:"username"`
}
