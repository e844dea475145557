package store

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plurapay/planviz/pkg/layout"
)

func TestFileStore_RoundTrip(t *testing.T) {
	s := NewFileStore(t.TempDir())
	ctx := context.Background()

	rec, err := s.Load(ctx, "default")
	require.NoError(t, err)
	assert.Nil(t, rec)

	want := Record{
		Signature: "abc123",
		Positions: map[string]layout.Position{"PV": {X: 80, Y: 60}},
	}
	require.NoError(t, s.Save(ctx, "default", want))

	rec, err = s.Load(ctx, "default")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, want.Signature, rec.Signature)
	assert.Equal(t, want.Positions, rec.Positions)
	assert.NotZero(t, rec.LastUpdated)
}

func TestFileStore_CorruptRecordTreatedAsAbsent(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "default", Record{Signature: "x"}))
	require.NoError(t, os.WriteFile(s.path("default"), []byte("{broken"), 0644))

	rec, err := s.Load(ctx, "default")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestFileStore_OverwriteReplaces(t *testing.T) {
	s := NewFileStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "default", Record{Signature: "one"}))
	require.NoError(t, s.Save(ctx, "default", Record{Signature: "two"}))

	rec, err := s.Load(ctx, "default")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "two", rec.Signature)
}
