package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/mediavault-server/internal/model"
	"github.com/dtroode/mediavault-server/internal/testutil"
)

func newRecorderFixture(t *testing.T, maxDuration time.Duration) (*fixture, *Recorder, model.Vault) {
	t.Helper()
	f := newFixture(t)
	v, err := f.manager.CreateVault(context.Background(), f.owner, model.NewVaultParams{Name: "camera roll"})
	require.NoError(t, err)
	return f, NewRecorder(f.manager, maxDuration, testutil.MakeNoopLogger()), v
}

func videoEvent() model.CaptureEvent {
	return model.CaptureEvent{
		Data:            []byte("encrypted-frames"),
		DurationSeconds: 12,
		Format:          "h264",
		Resolution:      "1920x1080",
		OriginalName:    "clip.mp4",
	}
}

func TestRecorder_CommitFlow(t *testing.T) {
	f, r, v := newRecorderFixture(t, time.Minute)
	ctx := context.Background()

	session, err := r.Start(ctx, CaptureRequest{OwnerID: f.owner, VaultID: v.ID, Type: model.ItemTypeVideo})
	require.NoError(t, err)
	assert.Equal(t, model.CaptureCapturing, session.State())

	item, err := session.Complete(ctx, videoEvent())
	require.NoError(t, err)
	assert.Equal(t, model.CaptureCommitted, session.State())
	assert.Equal(t, "clip.mp4", item.Name)
	assert.Equal(t, int64(len("encrypted-frames")), item.SizeBytes)

	committed, ok := session.Item()
	require.True(t, ok)
	assert.Equal(t, item.ID, committed.ID)
	assert.Len(t, f.blobs.Keys(v.StoragePrefix()), 1)

	select {
	case <-session.Done():
	default:
		t.Fatal("done channel not closed")
	}
}

func TestRecorder_NoConcurrentCapture(t *testing.T) {
	f, r, v := newRecorderFixture(t, time.Minute)
	ctx := context.Background()
	req := CaptureRequest{OwnerID: f.owner, VaultID: v.ID, Type: model.ItemTypePhoto}

	first, err := r.Start(ctx, req)
	require.NoError(t, err)

	_, err = r.Start(ctx, req)
	assert.ErrorIs(t, err, model.ErrCaptureInProgress)
	assert.Same(t, first, r.Active())

	require.NoError(t, first.Abort())
	assert.Equal(t, model.CaptureFailed, first.State())
	assert.ErrorIs(t, first.Err(), model.ErrCaptureClosed)

	second, err := r.Start(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, model.CaptureCapturing, second.State())
}

func TestRecorder_DeniedBeforeCapture(t *testing.T) {
	f, r, v := newRecorderFixture(t, time.Minute)
	ctx := context.Background()

	for i := 0; i < freeLimits.MaxVideos; i++ {
		s, err := r.Start(ctx, CaptureRequest{OwnerID: f.owner, VaultID: v.ID, Type: model.ItemTypeVideo})
		require.NoError(t, err)
		_, err = s.Complete(ctx, videoEvent())
		require.NoError(t, err)
	}

	session, err := r.Start(ctx, CaptureRequest{OwnerID: f.owner, VaultID: v.ID, Type: model.ItemTypeVideo})
	require.ErrorIs(t, err, model.ErrQuotaExceeded)
	require.NotNil(t, session)
	assert.Equal(t, model.CaptureDenied, session.State())
	assert.True(t, session.State().Terminal())

	_, err = session.Complete(ctx, videoEvent())
	assert.ErrorIs(t, err, model.ErrCaptureClosed)
	assert.Len(t, f.blobs.Keys(v.StoragePrefix()), freeLimits.MaxVideos)

	// A photo is still allowed after a denied video.
	_, err = r.Start(ctx, CaptureRequest{OwnerID: f.owner, VaultID: v.ID, Type: model.ItemTypePhoto})
	require.NoError(t, err)
}

func TestRecorder_QuotaRecheckedAtCommit(t *testing.T) {
	f, r, v := newRecorderFixture(t, time.Minute)
	ctx := context.Background()

	session, err := r.Start(ctx, CaptureRequest{OwnerID: f.owner, VaultID: v.ID, Type: model.ItemTypeVideo})
	require.NoError(t, err)

	// The subscription becomes unknown while recording.
	f.entitlements.mu.Lock()
	delete(f.entitlements.states, f.owner)
	f.entitlements.mu.Unlock()

	_, err = session.Complete(ctx, videoEvent())
	assert.ErrorIs(t, err, model.ErrQuotaExceeded)
	assert.Equal(t, model.CaptureFailed, session.State())
	assert.Empty(t, f.blobs.Keys(v.StoragePrefix()))
}

func TestRecorder_WallClockCap(t *testing.T) {
	f, r, v := newRecorderFixture(t, 20*time.Millisecond)
	ctx := context.Background()

	session, err := r.Start(ctx, CaptureRequest{OwnerID: f.owner, VaultID: v.ID, Type: model.ItemTypeVideo})
	require.NoError(t, err)

	select {
	case <-session.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("capture was not force-stopped")
	}

	assert.Equal(t, model.CaptureFailed, session.State())
	assert.ErrorIs(t, session.Err(), model.ErrCaptureTimeout)

	_, err = session.Complete(ctx, videoEvent())
	assert.ErrorIs(t, err, model.ErrCaptureTimeout)
	assert.Empty(t, f.blobs.Keys(v.StoragePrefix()))
	assert.Equal(t, 0, f.db.ItemRows())
}

func TestRecorder_UploadFailure(t *testing.T) {
	f, r, v := newRecorderFixture(t, time.Minute)
	ctx := context.Background()
	f.blobs.PutErr = errors.New("storage unreachable")

	session, err := r.Start(ctx, CaptureRequest{OwnerID: f.owner, VaultID: v.ID, Type: model.ItemTypeVideo})
	require.NoError(t, err)

	_, err = session.Complete(ctx, videoEvent())
	assert.ErrorIs(t, err, model.ErrTransient)
	assert.Equal(t, model.CaptureFailed, session.State())
}

func TestRecorder_InvalidEvent(t *testing.T) {
	f, r, v := newRecorderFixture(t, time.Minute)
	ctx := context.Background()

	session, err := r.Start(ctx, CaptureRequest{OwnerID: f.owner, VaultID: v.ID, Type: model.ItemTypeVideo})
	require.NoError(t, err)

	ev := videoEvent()
	ev.Format = ""
	_, err = session.Complete(ctx, ev)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
	assert.Equal(t, model.CaptureFailed, session.State())
}

func TestRecorder_StartValidation(t *testing.T) {
	_, r, v := newRecorderFixture(t, time.Minute)

	_, err := r.Start(context.Background(), CaptureRequest{OwnerID: uuid.Nil, VaultID: v.ID, Type: model.ItemTypePhoto})
	assert.ErrorIs(t, err, model.ErrNotAuthenticated)

	_, err = r.Start(context.Background(), CaptureRequest{OwnerID: uuid.New(), VaultID: v.ID, Type: "audio"})
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
	assert.Nil(t, r.Active())
}
