package domain

import "errors"

var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrNotHost         = errors.New("acting connection is not the host")
	ErrRequestNotFound = errors.New("join request not found")
	ErrEmptyURL        = errors.New("video url is empty")
	ErrNotInRoom       = errors.New("connection not in a room")
)
