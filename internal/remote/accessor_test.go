package remote

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/khianvictorycalderon/profilesync/internal/logging"
	"github.com/stretchr/testify/require"
)

// fakeStore records calls and plays back configured results.
type fakeStore struct {
	WriteErr  error
	ReadRet   Record
	ReadErr   error
	DeleteErr error
	SubErr    error

	LastWritePath  string
	LastWriteRec   Record
	LastWriteMerge bool
	LastDeletePath string

	onChange ChangeFunc
	canceled bool
}

func (f *fakeStore) Write(ctx context.Context, path string, rec Record, merge bool) error {
	f.LastWritePath, f.LastWriteRec, f.LastWriteMerge = path, rec, merge
	if f.WriteErr != nil {
		return f.WriteErr
	}
	return ctx.Err()
}

func (f *fakeStore) ReadOnce(ctx context.Context, path string) (Record, error) {
	return f.ReadRet, f.ReadErr
}

func (f *fakeStore) Subscribe(path string, onChange ChangeFunc) (CancelFunc, error) {
	if f.SubErr != nil {
		return nil, f.SubErr
	}
	f.onChange = onChange
	onChange(f.ReadRet, nil)
	return func() { f.canceled = true }, nil
}

func (f *fakeStore) Delete(ctx context.Context, path string) error {
	f.LastDeletePath = path
	return f.DeleteErr
}

func newTestAccessor(s Store) *Accessor {
	return NewAccessor(s, time.Second, logging.NewJSONLogger(io.Discard))
}

func TestWritePassesMergeFlagThrough(t *testing.T) {
	fs := &fakeStore{}
	a := newTestAccessor(fs)

	rec := Record{"FirstName": String("Jane")}
	require.NoError(t, a.Write(context.Background(), "users/u1", rec, true))
	require.Equal(t, "users/u1", fs.LastWritePath)
	require.True(t, fs.LastWriteMerge)
}

func TestWriteFailureIsTyped(t *testing.T) {
	fs := &fakeStore{WriteErr: errors.New("boom")}
	a := newTestAccessor(fs)

	err := a.Write(context.Background(), "users/u1", Record{}, false)
	var de *DataError
	require.ErrorAs(t, err, &de)
	require.Equal(t, KindWriteFailed, de.Kind)
	require.Equal(t, "users/u1", de.Path)
}

func TestTimeoutSurfacesDistinctKind(t *testing.T) {
	fs := &fakeStore{WriteErr: context.DeadlineExceeded}
	a := newTestAccessor(fs)

	err := a.Write(context.Background(), "users/u1", Record{}, true)
	var de *DataError
	require.ErrorAs(t, err, &de)
	require.Equal(t, KindTimeout, de.Kind)
}

func TestReadOnceAbsentPathIsNullNotError(t *testing.T) {
	fs := &fakeStore{ReadRet: nil}
	a := newTestAccessor(fs)

	v, err := a.ReadOnce(context.Background(), "users/u1", "FirstName")
	require.NoError(t, err)
	require.True(t, v.IsNull())
}

func TestReadOnceAbsentFieldIsNull(t *testing.T) {
	fs := &fakeStore{ReadRet: Record{"LastName": String("Doe")}}
	a := newTestAccessor(fs)

	v, err := a.ReadOnce(context.Background(), "users/u1", "FirstName")
	require.NoError(t, err)
	require.True(t, v.IsNull())
}

func TestSubscribeDeliversImmediatelyThenOnChange(t *testing.T) {
	fs := &fakeStore{ReadRet: Record{"FirstName": String("Jane")}}
	a := newTestAccessor(fs)

	var got []Value
	cancel, err := a.Subscribe("users/u1", "FirstName", func(v Value) {
		got = append(got, v)
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Jane", got[0].Str())

	fs.onChange(Record{"FirstName": String("Janet")}, nil)
	require.Len(t, got, 2)
	require.Equal(t, "Janet", got[1].Str())

	cancel()
	require.True(t, fs.canceled)
}

func TestSubscribeListenErrorDeliversNull(t *testing.T) {
	fs := &fakeStore{ReadRet: Record{"FirstName": String("Jane")}}
	a := newTestAccessor(fs)

	var got []Value
	_, err := a.Subscribe("users/u1", "FirstName", func(v Value) {
		got = append(got, v)
	})
	require.NoError(t, err)

	fs.onChange(nil, errors.New("stream reset"))
	require.Len(t, got, 2)
	require.True(t, got[1].IsNull())
}

func TestDeleteFailureIsTyped(t *testing.T) {
	fs := &fakeStore{DeleteErr: errors.New("denied")}
	a := newTestAccessor(fs)

	err := a.Delete(context.Background(), "users/u1")
	var de *DataError
	require.ErrorAs(t, err, &de)
	require.Equal(t, KindDeleteFailed, de.Kind)
}
