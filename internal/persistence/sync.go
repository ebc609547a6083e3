// Package persistence mirrors rooms into a durable store so they can be
// recovered after a restart. Writes are best effort: failures are logged and
// counted, never returned.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/scythe504/wordclash-backend/internal"
	"github.com/scythe504/wordclash-backend/internal/grid"
	"github.com/scythe504/wordclash-backend/internal/store"
)

const DefaultTimeout = 3 * time.Second

// Record is the stored shape of a room. The grid is flattened to rows joined
// by "|" so the document holds no nested arrays.
type Record struct {
	RoomID            string                 `json:"roomId"`
	Status            internal.RoomStatus    `json:"status"`
	Players           map[string]string      `json:"players"`
	Scores            map[string]int         `json:"scores"`
	CreatorConnection string                 `json:"creator_connection"`
	CurrentRound      int                    `json:"current_round"`
	TotalRounds       int                    `json:"total_rounds"`
	Grid              string                 `json:"grid"`
	Words             []string               `json:"words"`
	Placements        map[string][]grid.Cell `json:"placements"`
	Theme             string                 `json:"theme"`
	FoundWords        []string               `json:"found_words"`
	FoundHistory      []internal.FoundEntry  `json:"found_history"`
}

func NewRecord(r *internal.Room) Record {
	return Record{
		RoomID:            r.Id,
		Status:            r.Status,
		Players:           r.Players,
		Scores:            r.Scores,
		CreatorConnection: r.CreatorConnection,
		CurrentRound:      r.CurrentRound,
		TotalRounds:       r.TotalRounds,
		Grid:              r.Grid.Encode(),
		Words:             r.Words,
		Placements:        r.Placements,
		Theme:             r.Theme,
		FoundWords:        r.FoundWords,
		FoundHistory:      r.FoundHistory,
	}
}

// Room rebuilds the in-memory room. Missing collections come back empty,
// never nil.
func (rec Record) Room() (*internal.Room, error) {
	g, err := grid.Decode(rec.Grid)
	if err != nil {
		return nil, err
	}
	if rec.RoomID == "" {
		return nil, errors.New("record has no room id")
	}

	r := &internal.Room{
		Id:                rec.RoomID,
		Status:            rec.Status,
		Players:           rec.Players,
		Scores:            rec.Scores,
		CreatorConnection: rec.CreatorConnection,
		CurrentRound:      rec.CurrentRound,
		TotalRounds:       rec.TotalRounds,
		RoundState: internal.RoundState{
			Grid:         g,
			Words:        rec.Words,
			Placements:   rec.Placements,
			Theme:        rec.Theme,
			FoundWords:   rec.FoundWords,
			FoundHistory: rec.FoundHistory,
		},
	}
	if r.Players == nil {
		r.Players = map[string]string{}
	}
	if r.Scores == nil {
		r.Scores = map[string]int{}
	}
	if r.Placements == nil {
		r.Placements = map[string][]grid.Cell{}
	}
	if r.Words == nil {
		r.Words = []string{}
	}
	if r.FoundWords == nil {
		r.FoundWords = []string{}
	}
	if r.FoundHistory == nil {
		r.FoundHistory = []internal.FoundEntry{}
	}
	return r, nil
}

type Sync struct {
	store    store.Store
	timeout  time.Duration
	log      zerolog.Logger
	failures atomic.Int64
}

func NewSync(s store.Store, timeout time.Duration, log zerolog.Logger) *Sync {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Sync{
		store:   s,
		timeout: timeout,
		log:     log.With().Str("component", "persistence").Logger(),
	}
}

// Failures counts store errors since start.
func (s *Sync) Failures() int64 { return s.failures.Load() }

func (s *Sync) Save(ctx context.Context, r *internal.Room) {
	doc, err := json.Marshal(NewRecord(r))
	if err != nil {
		s.fail(err, r.Id, "encode room")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.store.Set(ctx, r.Id, doc); err != nil {
		s.fail(err, r.Id, "save room")
	}
}

// Load reports false when the room is absent or its record is unreadable.
func (s *Sync) Load(ctx context.Context, roomID string) (*internal.Room, bool) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	doc, err := s.store.Get(ctx, roomID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, false
	}
	if err != nil {
		s.fail(err, roomID, "load room")
		return nil, false
	}

	var rec Record
	if err := json.Unmarshal(doc, &rec); err != nil {
		s.fail(fmt.Errorf("decode record: %w", err), roomID, "load room")
		return nil, false
	}
	r, err := rec.Room()
	if err != nil {
		s.fail(fmt.Errorf("decode record: %w", err), roomID, "load room")
		return nil, false
	}
	return r, true
}

func (s *Sync) Delete(ctx context.Context, roomID string) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.store.Delete(ctx, roomID); err != nil {
		s.fail(err, roomID, "delete room")
	}
}

func (s *Sync) fail(err error, roomID, op string) {
	s.failures.Add(1)
	s.log.Error().Err(err).Str("room_id", roomID).Msgf("%s failed", op)
}
