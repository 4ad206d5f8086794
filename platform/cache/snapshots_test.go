package cache

import (
	"context"
	"fmt"
	"io/ioutil"
	"testing"
	"time"

	"github.com/DedS3t/minopolis/platform/engine"
	"github.com/DedS3t/minopolis/platform/match"
	"github.com/gomodule/redigo/redis"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis answers the handful of commands the store issues.
type fakeRedis struct {
	values   map[string][]byte
	lists    map[string][][]byte
	ttls     map[string]int
	commands []string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{
		values: make(map[string][]byte),
		lists:  make(map[string][][]byte),
		ttls:   make(map[string]int),
	}
}

func (f *fakeRedis) Get() redis.Conn { return &fakeConn{f} }

type fakeConn struct{ f *fakeRedis }

func (c *fakeConn) Close() error                      { return nil }
func (c *fakeConn) Err() error                        { return nil }
func (c *fakeConn) Send(string, ...interface{}) error { return nil }
func (c *fakeConn) Flush() error                      { return nil }
func (c *fakeConn) Receive() (interface{}, error)     { return nil, nil }

func (c *fakeConn) Do(cmd string, args ...interface{}) (interface{}, error) {
	f := c.f
	f.commands = append(f.commands, cmd)
	key := ""
	if len(args) > 0 {
		key = fmt.Sprint(args[0])
	}
	switch cmd {
	case "SET":
		f.values[key] = args[1].([]byte)
		if len(args) == 4 {
			f.ttls[key] = args[3].(int)
		}
		return "OK", nil
	case "GET":
		v, ok := f.values[key]
		if !ok {
			return nil, nil
		}
		return v, nil
	case "DEL":
		for _, a := range args {
			delete(f.values, fmt.Sprint(a))
			delete(f.lists, fmt.Sprint(a))
		}
		return int64(len(args)), nil
	case "EXPIRE":
		f.ttls[key] = args[1].(int)
		return int64(1), nil
	case "RPUSH":
		for _, a := range args[1:] {
			f.lists[key] = append(f.lists[key], a.([]byte))
		}
		return int64(len(f.lists[key])), nil
	case "LTRIM":
		l := f.lists[key]
		start := len(l) + args[1].(int)
		if start < 0 {
			start = 0
		}
		f.lists[key] = l[start:]
		return "OK", nil
	case "LRANGE":
		l := f.lists[key]
		start := len(l) + args[1].(int)
		if start < 0 {
			start = 0
		}
		out := make([]interface{}, 0, len(l)-start)
		for _, b := range l[start:] {
			out = append(out, b)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported command %s", cmd)
}

func TestSnapshotSaveLoadDelete(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	store := NewSnapshotStore(fake, time.Hour)

	_, err := store.Load(ctx, "m1")
	assert.Equal(t, match.ErrNotFound, err)

	require.NoError(t, store.Save(ctx, "m1", []byte(`{"version":1}`)))
	assert.Equal(t, 3600, fake.ttls["match:m1:snapshot"])

	data, err := store.Load(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, `{"version":1}`, string(data))

	require.NoError(t, store.Append(ctx, "m1", []engine.Event{{Type: engine.EventTurnStart, Player: "A"}}))
	require.NoError(t, store.Delete(ctx, "m1"))
	_, err = store.Load(ctx, "m1")
	assert.Equal(t, match.ErrNotFound, err)
	assert.Empty(t, fake.lists["match:m1:events"])
}

func TestSubSecondTTLRoundsUp(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	store := NewSnapshotStore(fake, 500*time.Millisecond)

	require.NoError(t, store.Save(ctx, "m1", []byte(`{}`)))
	assert.Equal(t, 1, fake.ttls["match:m1:snapshot"])
	require.NoError(t, store.Append(ctx, "m1", []engine.Event{{Type: engine.EventTurnStart}}))
	assert.Equal(t, 1, fake.ttls["match:m1:events"])

	assert.Equal(t, 2, seconds(1500*time.Millisecond))
	assert.Equal(t, 60, seconds(time.Minute))
}

func TestEventHistoryIsBounded(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	store := NewSnapshotStore(fake, 0)

	batch := make([]engine.Event, 0, MaxEvents)
	for i := 0; i < MaxEvents; i++ {
		batch = append(batch, engine.Event{Type: engine.EventBid, Data: map[string]interface{}{"amount": i}})
	}
	require.NoError(t, store.Append(ctx, "m1", batch))
	require.NoError(t, store.Append(ctx, "m1", []engine.Event{{Type: engine.EventGameOver, Player: "B"}}))
	assert.Len(t, fake.lists["match:m1:events"], MaxEvents)
	assert.NotContains(t, fake.commands, "EXPIRE")

	last, err := store.Events(ctx, "m1", 2)
	require.NoError(t, err)
	require.Len(t, last, 2)
	assert.Equal(t, engine.EventBid, last[0].Type)
	assert.Equal(t, float64(MaxEvents-1), last[0].Data["amount"])
	assert.Equal(t, engine.EventGameOver, last[1].Type)
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := NewSnapshotStore(newFakeRedis(), 0)
	assert.Error(t, store.Save(ctx, "m1", []byte("x")))
	_, err := store.Load(ctx, "m1")
	assert.Error(t, err)
}

// The redis store plugs into the match service.
func TestManagerResumesFromRedis(t *testing.T) {
	ctx := context.Background()
	store := NewSnapshotStore(newFakeRedis(), time.Hour)
	m := match.NewManager(engine.DefaultConfig(), store, quietLogger())

	created, err := m.Create(ctx, "m1")
	require.NoError(t, err)
	_, err = created.Join(ctx, "A", "Alice")
	require.NoError(t, err)

	resumed, err := match.NewManager(engine.DefaultConfig(), store, quietLogger()).Get(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, created.View(), resumed.View())
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(ioutil.Discard)
	return logger
}
