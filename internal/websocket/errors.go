package websocket

import "errors"

var (
	ErrClientQueueFull = errors.New("client event queue is full")
	ErrInvalidEvent    = errors.New("invalid event payload")
	ErrNotInGroupRoom  = errors.New("join the group room before sending")
)
