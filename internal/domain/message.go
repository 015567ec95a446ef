package domain

type ChatMessage struct {
	ID        string `json:"id,omitempty"`
	Author    string `json:"username"`
	Text      string `json:"message"`
	Timestamp int64  `json:"timestamp"` // unix millis, ставится сервером
}
