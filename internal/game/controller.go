// Package game runs the room lifecycle: creating and joining rooms, scoring
// finds, advancing rounds and tearing rooms down.
//
// All room state is owned by one goroutine. Transports hand inbound frames
// to Submit; Run applies them one at a time, so handlers never lock.
package game

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/scythe504/wordclash-backend/internal"
	"github.com/scythe504/wordclash-backend/internal/events"
)

const DefaultQueueSize = 256

// RoundMaker produces the puzzle for a new round.
type RoundMaker interface {
	NewRound(ctx context.Context) internal.RoundState
}

// Persister is the best-effort durable mirror of resident rooms.
type Persister interface {
	Loader
	Save(ctx context.Context, room *internal.Room)
	Delete(ctx context.Context, roomID string)
	Failures() int64
}

type Options struct {
	// DefaultRounds applies when create_room asks for no rounds.
	DefaultRounds int
	QueueSize     int
	// Rand picks room codes; nil means randomly seeded.
	Rand *rand.Rand
}

type Controller struct {
	registry  *Registry
	rounds    RoundMaker
	persist   Persister
	transport Transport
	publisher events.Publisher
	log       zerolog.Logger

	defaultRounds int
	rng           *rand.Rand

	queue    chan Event
	done     chan struct{}
	stopOnce sync.Once

	handled  atomic.Int64
	resident atomic.Int64
}

type Stats struct {
	Rooms               int64 `json:"rooms"`
	EventsHandled       int64 `json:"events_handled"`
	PersistenceFailures int64 `json:"persistence_failures"`
}

func NewController(rounds RoundMaker, persist Persister, transport Transport, publisher events.Publisher, log zerolog.Logger, opts Options) *Controller {
	if opts.DefaultRounds <= 0 {
		opts.DefaultRounds = internal.DefaultRounds
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Controller{
		registry:      NewRegistry(persist),
		rounds:        rounds,
		persist:       persist,
		transport:     transport,
		publisher:     publisher,
		log:           log.With().Str("component", "controller").Logger(),
		defaultRounds: min(opts.DefaultRounds, internal.MaxRounds),
		rng:           opts.Rand,
		queue:         make(chan Event, opts.QueueSize),
		done:          make(chan struct{}),
	}
}

// Submit queues ev for Run. It blocks while the queue is full and fails once
// the controller has stopped.
func (c *Controller) Submit(ev Event) error {
	select {
	case <-c.done:
		return ErrStopped
	default:
	}
	select {
	case c.queue <- ev:
		return nil
	case <-c.done:
		return ErrStopped
	}
}

// Run handles queued events until ctx is cancelled.
func (c *Controller) Run(ctx context.Context) {
	defer c.stopOnce.Do(func() { close(c.done) })
	c.log.Info().Msg("controller started")
	for {
		select {
		case <-ctx.Done():
			c.log.Info().Int("rooms", c.registry.Len()).Msg("controller stopped")
			return
		case ev := <-c.queue:
			c.Dispatch(ctx, ev)
		}
	}
}

// Dispatch handles a single event to completion. Only one goroutine may call
// it at a time; Run is that goroutine in production.
func (c *Controller) Dispatch(ctx context.Context, ev Event) {
	start := time.Now()
	defer func() {
		c.handled.Add(1)
		c.resident.Store(int64(c.registry.Len()))
		c.log.Debug().
			Str("type", ev.Type).
			Str("conn_id", ev.ConnID).
			Dur("took", time.Since(start)).
			Msg("event handled")
	}()

	var err error
	switch ev.Type {
	case internal.TypeCreateRoom:
		var data internal.CreateRoomData
		if err = decode(ev.Data, &data); err == nil {
			c.handleCreateRoom(ctx, ev.ConnID, data)
		}
	case internal.TypeJoinRoom:
		var data internal.JoinRoomData
		if err = decode(ev.Data, &data); err == nil {
			c.handleJoinRoom(ctx, ev.ConnID, data)
		}
	case internal.TypeLeaveGame:
		var data internal.LeaveGameData
		if err = decode(ev.Data, &data); err == nil {
			c.handleLeaveGame(ctx, ev.ConnID, data)
		}
	case internal.TypeWordFound:
		var data internal.WordFoundData
		if err = decode(ev.Data, &data); err == nil {
			c.handleWordFound(ctx, ev.ConnID, data)
		}
	case TypeDisconnect:
		c.handleDisconnect(ctx, ev.ConnID)
	default:
		c.log.Warn().Str("type", ev.Type).Str("conn_id", ev.ConnID).Msg("unknown event type")
	}
	if err != nil {
		c.log.Warn().Err(err).Str("type", ev.Type).Str("conn_id", ev.ConnID).Msg("malformed payload")
	}
}

// Stats is safe to call from any goroutine.
func (c *Controller) Stats() Stats {
	return Stats{
		Rooms:               c.resident.Load(),
		EventsHandled:       c.handled.Load(),
		PersistenceFailures: c.persist.Failures(),
	}
}

// decode treats an absent payload as an empty object.
func decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

func (c *Controller) emitError(connID string, err error) {
	c.transport.Emit(connID, internal.Message[internal.ErrorData]{
		Type: internal.TypeError,
		Data: internal.ErrorData{Message: err.Error()},
	})
}

func (c *Controller) publish(ctx context.Context, ev events.RoomEvent) {
	ev.Emitted = time.Now().UTC()
	if err := c.publisher.Publish(ctx, ev); err != nil {
		c.log.Warn().Err(err).Str("room_id", ev.RoomID).Str("event", string(ev.Type)).Msg("publish lifecycle event failed")
	}
}
