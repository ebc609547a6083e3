package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

const DefaultSubjectPrefix = "wordclash"

// NATS publishes events as JSON on core NATS subjects of the form
// <prefix>.rooms.<roomId>.<type>.
type NATS struct {
	conn   *nats.Conn
	prefix string
}

func NewNATS(url, prefix string) (*NATS, error) {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	conn, err := nats.Connect(
		url,
		nats.Name("wordclash-backend"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
		nats.PingInterval(20*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &NATS{conn: conn, prefix: prefix}, nil
}

func (n *NATS) Subject(ev RoomEvent) string {
	return fmt.Sprintf("%s.rooms.%s.%s", n.prefix, ev.RoomID, ev.Type)
}

func (n *NATS) Publish(ctx context.Context, ev RoomEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ev.Emitted.IsZero() {
		ev.Emitted = time.Now().UTC()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", ev.Type, err)
	}
	if err := n.conn.Publish(n.Subject(ev), data); err != nil {
		return fmt.Errorf("publish %s event: %w", ev.Type, err)
	}
	return nil
}

// Close flushes pending messages before closing the connection.
func (n *NATS) Close() error {
	return n.conn.Drain()
}
