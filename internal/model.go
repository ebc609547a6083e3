package internal

import (
	"github.com/scythe504/wordclash-backend/internal/grid"
)

const (
	MaxPlayersPerRoom = 2
	DefaultRounds     = 5
	MaxRounds         = 20
)

type RoomStatus string

const (
	StatusWaiting RoomStatus = "waiting"
	StatusPlaying RoomStatus = "playing"
)

// FoundEntry records one find, in the order finds happened. Clients replay
// the history to repaint the board after a re-join.
type FoundEntry struct {
	Word    string      `json:"word"`
	Finder  string      `json:"finder"`
	Indices []grid.Cell `json:"indices"`
}

// RoundState is one puzzle instance within a room.
type RoundState struct {
	Grid         grid.Grid              `json:"grid"`
	Words        []string               `json:"words"`
	Placements   map[string][]grid.Cell `json:"placements"`
	Theme        string                 `json:"theme"`
	FoundWords   []string               `json:"found_words"`
	FoundHistory []FoundEntry           `json:"found_history"`
}

// Room is one game session between up to two players.
type Room struct {
	Id     string     `json:"roomId"`
	Status RoomStatus `json:"status"`

	// Players maps user id to the connection id the user last joined from.
	Players map[string]string `json:"players"`
	// Scores outlives Players entries; it is never pruned.
	Scores map[string]int `json:"scores"`

	// CreatorConnection only matters while the room is waiting.
	CreatorConnection string `json:"creator_connection"`

	CurrentRound int `json:"current_round"`
	TotalRounds  int `json:"total_rounds"`

	RoundState
}
