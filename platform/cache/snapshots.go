package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/DedS3t/minopolis/platform/engine"
	"github.com/DedS3t/minopolis/platform/match"
	"github.com/gomodule/redigo/redis"
)

// MaxEvents bounds the stored history per match.
const MaxEvents = 1000

var (
	_ match.Store    = (*SnapshotStore)(nil)
	_ match.EventLog = (*SnapshotStore)(nil)
)

// SnapshotStore keeps match snapshots and event history in redis.
type SnapshotStore struct {
	pool Pool
	ttl  time.Duration
}

func NewSnapshotStore(pool Pool, ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{pool: pool, ttl: ttl}
}

func snapshotKey(id string) string { return fmt.Sprintf("match:%s:snapshot", id) }
func eventsKey(id string) string   { return fmt.Sprintf("match:%s:events", id) }

func (s *SnapshotStore) Save(ctx context.Context, id string, snapshot []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	conn := s.pool.Get()
	defer conn.Close()
	if err := Set(conn, snapshotKey(id), snapshot, s.ttl); err != nil {
		return fmt.Errorf("save snapshot %s: %w", id, err)
	}
	return nil
}

func (s *SnapshotStore) Load(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	conn := s.pool.Get()
	defer conn.Close()
	data, err := Get(conn, snapshotKey(id))
	if errors.Is(err, redis.ErrNil) {
		return nil, match.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", id, err)
	}
	return data, nil
}

func (s *SnapshotStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	conn := s.pool.Get()
	defer conn.Close()
	return Del(conn, snapshotKey(id), eventsKey(id))
}

// Append records events in order, keeping the newest MaxEvents.
func (s *SnapshotStore) Append(ctx context.Context, id string, events []engine.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	values := make([]interface{}, 0, len(events))
	for _, e := range events {
		b, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encode event: %w", err)
		}
		values = append(values, b)
	}
	if len(values) == 0 {
		return nil
	}

	conn := s.pool.Get()
	defer conn.Close()
	key := eventsKey(id)
	n, err := RPUSH(conn, key, values)
	if err != nil {
		return fmt.Errorf("append events %s: %w", id, err)
	}
	if n > MaxEvents {
		if err := LTRIM(conn, key, MaxEvents); err != nil {
			return err
		}
	}
	if s.ttl > 0 {
		return Expire(conn, key, s.ttl)
	}
	return nil
}

// Events returns up to the last n events of a match, oldest first.
func (s *SnapshotStore) Events(ctx context.Context, id string, n int) ([]engine.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	conn := s.pool.Get()
	defer conn.Close()
	raw, err := LRANGE(conn, eventsKey(id), -n, -1)
	if err != nil {
		return nil, fmt.Errorf("read events %s: %w", id, err)
	}
	out := make([]engine.Event, 0, len(raw))
	for _, b := range raw {
		var e engine.Event
		if err := json.Unmarshal(b, &e); err != nil {
			return nil, fmt.Errorf("decode event: %w", err)
		}
		out = append(out, e)
	}
	return out, nil
}
