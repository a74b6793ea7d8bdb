package memtree

import (
	"context"
	"testing"

	"github.com/khianvictorycalderon/profilesync/internal/remote"
	"github.com/stretchr/testify/require"
)

func TestLeafPathsHaveNoParityRule(t *testing.T) {
	s := New()
	ctx := context.Background()

	// A single segment is a valid leaf in the tree flavor.
	require.NoError(t, s.Write(ctx, "settings", remote.Record{"theme": remote.String("dark")}, false))

	rec, err := s.ReadOnce(ctx, "settings")
	require.NoError(t, err)
	require.Equal(t, "dark", rec["theme"].Str())
}

func TestMergeAndSubscribe(t *testing.T) {
	s := New()
	ctx := context.Background()

	var got []remote.Record
	cancel, err := s.Subscribe("users/u1", func(rec remote.Record, err error) {
		require.NoError(t, err)
		got = append(got, rec)
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Nil(t, got[0])

	require.NoError(t, s.Write(ctx, "users/u1", remote.Record{"name": remote.String("Jario")}, false))
	require.NoError(t, s.Write(ctx, "users/u1", remote.Record{"age": remote.Int(17)}, true))
	require.Len(t, got, 3)
	require.Equal(t, "Jario", got[2]["name"].Str())
	require.Equal(t, int64(17), got[2]["age"].Int())

	cancel()
	require.NoError(t, s.Delete(ctx, "users/u1"))
	require.Len(t, got, 3)
}
