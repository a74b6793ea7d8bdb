package memdoc

import (
	"context"
	"testing"
	"time"

	"github.com/khianvictorycalderon/profilesync/internal/remote"
	"github.com/stretchr/testify/require"
)

func TestMergeWriteTouchesOnlyGivenFields(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "users/u1", remote.Record{
		"FirstName": remote.String("Jane"),
		"LastName":  remote.String("Doe"),
	}, false))
	require.NoError(t, s.Write(ctx, "users/u1", remote.Record{
		"FirstName": remote.String("Janet"),
	}, true))

	rec, err := s.ReadOnce(ctx, "users/u1")
	require.NoError(t, err)
	require.Equal(t, "Janet", rec["FirstName"].Str())
	require.Equal(t, "Doe", rec["LastName"].Str())
}

func TestReplaceWriteDropsOtherFields(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "users/u1", remote.Record{
		"FirstName": remote.String("Jane"),
		"LastName":  remote.String("Doe"),
	}, false))
	require.NoError(t, s.Write(ctx, "users/u1", remote.Record{
		"FirstName": remote.String("Janet"),
	}, false))

	rec, err := s.ReadOnce(ctx, "users/u1")
	require.NoError(t, err)
	require.True(t, rec["LastName"].IsNull())
}

func TestServerTimestampResolvedWithStoreClock(t *testing.T) {
	s := New()
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return now })

	require.NoError(t, s.Write(context.Background(), "users/u1", remote.Record{
		"AccountDateCreation": remote.ServerTimestamp(),
	}, true))

	rec, err := s.ReadOnce(context.Background(), "users/u1")
	require.NoError(t, err)
	require.Equal(t, remote.KindTime, rec["AccountDateCreation"].Kind())
	require.True(t, now.Equal(rec["AccountDateCreation"].Time()))
}

func TestSubscribeSnapshotThenUpdates(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.Write(ctx, "users/u1", remote.Record{"FirstName": remote.String("Jane")}, false))

	var got []remote.Record
	cancel, err := s.Subscribe("users/u1", func(rec remote.Record, err error) {
		require.NoError(t, err)
		got = append(got, rec)
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Jane", got[0]["FirstName"].Str())

	require.NoError(t, s.Write(ctx, "users/u1", remote.Record{"FirstName": remote.String("Janet")}, true))
	require.Len(t, got, 2)

	require.NoError(t, s.Delete(ctx, "users/u1"))
	require.Len(t, got, 3)
	require.Nil(t, got[2])

	cancel()
}

func TestCancelFreezesDeliveries(t *testing.T) {
	s := New()
	ctx := context.Background()

	count := 0
	cancel, err := s.Subscribe("users/u1", func(rec remote.Record, err error) { count++ })
	require.NoError(t, err)
	require.Equal(t, 1, count) // initial nil snapshot

	require.NoError(t, s.Write(ctx, "users/u1", remote.Record{"FirstName": remote.String("Jane")}, true))
	require.Equal(t, 2, count)

	cancel()
	require.NoError(t, s.Write(ctx, "users/u1", remote.Record{"FirstName": remote.String("Janet")}, true))
	require.Equal(t, 2, count)

	// Canceling twice is harmless.
	cancel()
}

func TestCollectionPathsRejected(t *testing.T) {
	s := New()
	err := s.Write(context.Background(), "users", remote.Record{}, true)
	require.ErrorIs(t, err, remote.ErrInvalidPath)
}
