// Package events publishes room lifecycle notifications for consumers
// outside the game server.
package events

import (
	"context"
	"time"
)

type Type string

const (
	RoomCreated   Type = "room_created"
	GameStarted   Type = "game_started"
	RoundAdvanced Type = "round_advanced"
	GameOver      Type = "game_over"
	RoomClosed    Type = "room_closed"
)

type RoomEvent struct {
	Type    Type           `json:"type"`
	RoomID  string         `json:"roomId"`
	Round   int            `json:"round,omitempty"`
	Scores  map[string]int `json:"scores,omitempty"`
	Winner  string         `json:"winner,omitempty"`
	Reason  string         `json:"reason,omitempty"`
	Theme   string         `json:"theme,omitempty"`
	Emitted time.Time      `json:"emitted"`
}

// Publisher delivers lifecycle events. Callers treat errors as non-fatal.
type Publisher interface {
	Publish(ctx context.Context, ev RoomEvent) error
	Close() error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, RoomEvent) error { return nil }
func (Nop) Close() error                             { return nil }
