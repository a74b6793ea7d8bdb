package subscription

import (
	"errors"
	"testing"

	"github.com/khianvictorycalderon/profilesync/internal/remote"
	"github.com/stretchr/testify/require"
)

func TestRegisterReplacesAndCancelsOldHandle(t *testing.T) {
	r := NewRegistry()
	key := Key{Path: "users/u1", Field: "FirstName"}

	// A spy counter that must freeze after cancellation.
	firstDeliveries := 0
	firstLive := true
	_, err := r.Register(key, func() (remote.CancelFunc, error) {
		return func() { firstLive = false }, nil
	})
	require.NoError(t, err)

	deliver := func() {
		if firstLive {
			firstDeliveries++
		}
	}
	deliver()
	require.Equal(t, 1, firstDeliveries)

	_, err = r.Register(key, func() (remote.CancelFunc, error) {
		require.False(t, firstLive, "old handle must be canceled before the new one installs")
		return func() {}, nil
	})
	require.NoError(t, err)

	deliver()
	require.Equal(t, 1, firstDeliveries)
	require.Equal(t, 1, r.Len())
}

func TestRegisterFactoryErrorLeavesKeyEmpty(t *testing.T) {
	r := NewRegistry()
	key := Key{Path: "users/u1", Field: "FirstName"}

	_, err := r.Register(key, func() (remote.CancelFunc, error) {
		return nil, errors.New("listen refused")
	})
	require.Error(t, err)
	require.Zero(t, r.Len())
}

func TestCancelAllIsIdempotent(t *testing.T) {
	r := NewRegistry()

	canceled := 0
	for _, f := range []string{"FirstName", "LastName"} {
		_, err := r.Register(Key{Path: "users/u1", Field: f}, func() (remote.CancelFunc, error) {
			return func() { canceled++ }, nil
		})
		require.NoError(t, err)
	}

	r.CancelAll()
	require.Equal(t, 2, canceled)
	require.Zero(t, r.Len())

	// Again with nothing active.
	r.CancelAll()
	require.Equal(t, 2, canceled)
}

func TestCancelSingleKey(t *testing.T) {
	r := NewRegistry()
	key := Key{Path: "users/u1", Field: "FirstName"}

	canceled := false
	_, err := r.Register(key, func() (remote.CancelFunc, error) {
		return func() { canceled = true }, nil
	})
	require.NoError(t, err)

	r.Cancel(key)
	require.True(t, canceled)

	// Unknown keys are a no-op.
	r.Cancel(Key{Path: "users/u2", Field: "FirstName"})
}
