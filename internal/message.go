package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/scythe504/wordclash-backend/internal/grid"
)

// Message is the envelope for every frame in both directions.
type Message[T any] struct {
	Type string `json:"type"`
	Data T      `json:"data"`
}

// Inbound event types.
const (
	TypeCreateRoom = "create_room"
	TypeJoinRoom   = "join_room"
	TypeLeaveGame  = "leave_game"
	TypeWordFound  = "word_found"
)

// Outbound event types.
const (
	TypeRoomCreated = "room_created"
	TypeGameStart   = "game_start"
	TypeError       = "error"
	TypePlayerLeft  = "player_left"
	TypeUpdateBoard = "update_board"
	TypeGameOver    = "game_over"
)

// FlexString accepts a JSON string or number. Browsers send room codes typed
// into a numeric input as numbers.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(strings.TrimSpace(v))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number: %w", err)
	}
	*s = FlexString(n.String())
	return nil
}

// FlexInt accepts a JSON number or a numeric string.
type FlexInt int

func (i *FlexInt) UnmarshalJSON(data []byte) error {
	var s FlexString
	if err := s.UnmarshalJSON(data); err != nil {
		return err
	}
	if s == "" {
		*i = 0
		return nil
	}
	n, err := strconv.Atoi(string(s))
	if err != nil {
		return fmt.Errorf("expected integer, got %q: %w", s, err)
	}
	*i = FlexInt(n)
	return nil
}

type CreateRoomData struct {
	UserID string  `json:"userId"`
	Rounds FlexInt `json:"rounds"`
}

type JoinRoomData struct {
	RoomID FlexString `json:"roomId"`
	UserID string     `json:"userId"`
}

type LeaveGameData struct {
	RoomID FlexString `json:"roomId"`
}

type WordFoundData struct {
	RoomID FlexString `json:"roomId"`
	Word   string     `json:"word"`
	UserID string     `json:"userId"`
}

type RoomCreatedData struct {
	RoomID string `json:"roomId"`
	Theme  string `json:"theme"`
}

// GameStartData is the full round snapshot sent when a game starts, when a
// player re-joins and when a new round begins.
type GameStartData struct {
	Grid         grid.Grid      `json:"grid"`
	Words        []string       `json:"words"`
	Scores       map[string]int `json:"scores"`
	Theme        string         `json:"theme"`
	FoundHistory []FoundEntry   `json:"found_history"`
	CurrentRound int            `json:"current_round"`
	TotalRounds  int            `json:"total_rounds"`
}

type ErrorData struct {
	Message string `json:"message"`
}

type PlayerLeftData struct {
	Msg string `json:"msg"`
}

type UpdateBoardData struct {
	Word    string         `json:"word"`
	Finder  string         `json:"finder"`
	Indices []grid.Cell    `json:"indices"`
	Scores  map[string]int `json:"scores"`
}

type GameOverData struct {
	Winner string `json:"winner"`
}
