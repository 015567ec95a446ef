package event

import "encoding/json"

// Типы событий на ws-канале. in — клиент→сервер, out — сервер→клиент.
const (
	TypeCreateRoom     = "create_room"      // in
	TypeRoomCreated    = "room_created"     // out→создателю
	TypeJoinRequest    = "join_request"     // in
	TypeJoinPending    = "join_pending"     // out→просителю
	TypeNewJoinRequest = "new_join_request" // out→хосту
	TypeApproveJoin    = "approve_join"     // in, только хост
	TypeRejectJoin     = "reject_join"      // in, только хост
	TypeJoinApproved   = "join_approved"    // out→просителю, полный снапшот
	TypeJoinRejected   = "join_rejected"    // out→просителю
	TypeRoomDataUpdate = "room_data_update" // out→комнате или хосту
	TypeUserJoined     = "user_joined"      // out→комнате
	TypeUserLeft       = "user_left"        // out→комнате
	TypeVideoSync      = "video_sync"       // in от хоста / out остальным
	TypeSetVideoURL    = "set_video_url"    // in, только хост
	TypeVideoURLUpdate = "video_url_updated" // out→комнате
	TypeChatMessage    = "chat_message"     // in текст / out полное сообщение
	TypeRoomClosed     = "room_closed"      // out→комнате
	TypeError          = "error_message"    // out→виновнику
)

type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Decode перекладывает payload в типизированную структуру. После
// json.Unmarshal в Event payload лежит как map, поэтому round-trip.
func Decode(payload any, dst any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}
