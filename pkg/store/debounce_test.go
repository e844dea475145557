package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureStore records every Save it receives.
type captureStore struct {
	mu    sync.Mutex
	saves []Record
}

func (c *captureStore) Load(ctx context.Context, instanceID string) (*Record, error) {
	return nil, nil
}

func (c *captureStore) Save(ctx context.Context, instanceID string, rec Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.saves = append(c.saves, rec)
	return nil
}

func (c *captureStore) Close() error { return nil }

func (c *captureStore) snapshot() []Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Record{}, c.saves...)
}

func TestDebouncedWriter_Supersedes(t *testing.T) {
	cs := &captureStore{}
	w := NewDebouncedWriter(cs, 20*time.Millisecond)

	w.Write("default", Record{Signature: "one"})
	w.Write("default", Record{Signature: "two"})
	w.Write("default", Record{Signature: "three"})

	time.Sleep(100 * time.Millisecond)

	saves := cs.snapshot()
	require.Len(t, saves, 1, "rapid writes must coalesce into one")
	assert.Equal(t, "three", saves[0].Signature)
}

func TestDebouncedWriter_Flush(t *testing.T) {
	cs := &captureStore{}
	w := NewDebouncedWriter(cs, time.Hour)

	w.Write("default", Record{Signature: "pending"})
	w.Flush()

	saves := cs.snapshot()
	require.Len(t, saves, 1)
	assert.Equal(t, "pending", saves[0].Signature)

	// Flushing again with nothing pending is a no-op.
	w.Flush()
	assert.Len(t, cs.snapshot(), 1)
}

func TestDebouncedWriter_CloseFlushes(t *testing.T) {
	cs := &captureStore{}
	w := NewDebouncedWriter(cs, time.Hour)

	w.Write("default", Record{Signature: "last"})
	w.Close()

	require.Len(t, cs.snapshot(), 1)
}

func TestDebouncedWriter_ZeroDelayUsesDefault(t *testing.T) {
	w := NewDebouncedWriter(&captureStore{}, 0)
	assert.Equal(t, DefaultDebounce, w.delay)
}
