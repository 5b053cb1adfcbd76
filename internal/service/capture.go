package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/mediavault-server/internal/logger"
	"github.com/dtroode/mediavault-server/internal/model"
	"github.com/dtroode/mediavault-server/internal/quota"
)

// DefaultCaptureMaxDuration is the wall-clock cap of a capture session.
const DefaultCaptureMaxDuration = 300 * time.Second

// CaptureBackend checks quota before a capture and stores the result.
// *Manager implements it.
type CaptureBackend interface {
	CheckQuota(ctx context.Context, ownerID uuid.UUID, candidate model.Candidate) (quota.Decision, error)
	AddItem(ctx context.Context, ownerID, vaultID uuid.UUID, req model.NewItem, blob io.Reader) (model.Item, error)
}

// CaptureRequest describes a capture about to start.
type CaptureRequest struct {
	OwnerID uuid.UUID
	VaultID uuid.UUID
	Type    model.ItemType
	// Name is the display name of the stored item. Empty uses the original
	// file name of the capture, or a timestamp.
	Name string
}

// Recorder runs the capture state machine for one capture device. At most
// one session is open at a time.
type Recorder struct {
	backend     CaptureBackend
	maxDuration time.Duration
	logger      *logger.Logger

	mu     sync.Mutex
	active *CaptureSession
}

// NewRecorder creates a Recorder. A non-positive maxDuration uses
// DefaultCaptureMaxDuration.
func NewRecorder(backend CaptureBackend, maxDuration time.Duration, logger *logger.Logger) *Recorder {
	if maxDuration <= 0 {
		maxDuration = DefaultCaptureMaxDuration
	}
	return &Recorder{
		backend:     backend,
		maxDuration: maxDuration,
		logger:      logger,
	}
}

// Start checks quota and, when allowed, opens a session in the Capturing
// state. A denied start returns the session in the Denied state together
// with a *model.QuotaExceededError.
func (r *Recorder) Start(ctx context.Context, req CaptureRequest) (*CaptureSession, error) {
	if req.OwnerID == uuid.Nil {
		return nil, model.ErrNotAuthenticated
	}
	if !req.Type.Valid() {
		return nil, model.NewValidationError("type", fmt.Sprintf("unsupported item type %q", req.Type))
	}

	r.mu.Lock()
	if r.active != nil && !r.active.State().Terminal() {
		r.mu.Unlock()
		return nil, model.ErrCaptureInProgress
	}
	session := &CaptureSession{
		id:       uuid.New(),
		recorder: r,
		req:      req,
		state:    model.CaptureQuotaCheck,
		done:     make(chan struct{}),
	}
	r.active = session
	r.mu.Unlock()

	decision, err := r.backend.CheckQuota(ctx, req.OwnerID, model.Candidate{Type: req.Type})
	if err != nil {
		session.finish(model.CaptureFailed, err)
		return session, err
	}
	if !decision.Allowed {
		err := decision.Err()
		session.finish(model.CaptureDenied, err)
		return session, err
	}

	session.mu.Lock()
	session.state = model.CaptureCapturing
	session.deadline = time.Now().Add(r.maxDuration)
	session.timer = time.AfterFunc(r.maxDuration, session.expire)
	session.mu.Unlock()

	r.logger.Debug("Recorder: capture started",
		"owner_id", req.OwnerID,
		"vault_id", req.VaultID,
		"type", req.Type)

	return session, nil
}

// Active returns the current session, if any.
func (r *Recorder) Active() *CaptureSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// CaptureSession is a single pass through the capture state machine.
type CaptureSession struct {
	id       uuid.UUID
	recorder *Recorder
	req      CaptureRequest

	mu       sync.Mutex
	state    model.CaptureState
	err      error
	item     model.Item
	deadline time.Time
	timer    *time.Timer
	done     chan struct{}
}

// ID identifies the session.
func (s *CaptureSession) ID() uuid.UUID {
	return s.id
}

// Deadline is when a recording session is discarded. It is zero until the
// session reaches the Capturing state.
func (s *CaptureSession) Deadline() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deadline
}

// State returns the current state.
func (s *CaptureSession) State() model.CaptureState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the error that ended the session, if any.
func (s *CaptureSession) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Item returns the committed item.
func (s *CaptureSession) Item() (model.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.item, s.state == model.CaptureCommitted
}

// Done is closed when the session reaches a terminal state.
func (s *CaptureSession) Done() <-chan struct{} {
	return s.done
}

// Complete consumes the event emitted by the capture device and uploads the
// recording. Quota is checked again since usage may have changed while
// recording.
func (s *CaptureSession) Complete(ctx context.Context, event model.CaptureEvent) (model.Item, error) {
	s.mu.Lock()
	if s.state != model.CaptureCapturing {
		err := model.ErrCaptureClosed
		if errors.Is(s.err, model.ErrCaptureTimeout) {
			err = model.ErrCaptureTimeout
		}
		s.mu.Unlock()
		return model.Item{}, err
	}
	s.timer.Stop()
	s.state = model.CaptureUploading
	s.mu.Unlock()

	req, err := s.newItem(event)
	if err != nil {
		s.finish(model.CaptureFailed, err)
		return model.Item{}, err
	}

	item, err := s.recorder.backend.AddItem(ctx, s.req.OwnerID, s.req.VaultID, req, bytes.NewReader(event.Data))
	if err != nil {
		s.recorder.logger.Warn("Recorder: capture upload failed",
			"owner_id", s.req.OwnerID,
			"vault_id", s.req.VaultID,
			"error", err)
		s.finish(model.CaptureFailed, err)
		return model.Item{}, err
	}

	s.mu.Lock()
	s.item = item
	s.finishLocked(model.CaptureCommitted, nil)
	s.mu.Unlock()

	return item, nil
}

// Abort discards a capture that is still recording.
func (s *CaptureSession) Abort() error {
	s.mu.Lock()
	if s.state != model.CaptureCapturing {
		s.mu.Unlock()
		return model.ErrCaptureClosed
	}
	s.timer.Stop()
	s.finishLocked(model.CaptureFailed, fmt.Errorf("capture aborted: %w", model.ErrCaptureClosed))
	s.mu.Unlock()

	return nil
}

func (s *CaptureSession) expire() {
	s.mu.Lock()
	if s.state != model.CaptureCapturing {
		s.mu.Unlock()
		return
	}
	s.finishLocked(model.CaptureFailed, model.ErrCaptureTimeout)
	s.mu.Unlock()

	s.recorder.logger.Warn("Recorder: capture exceeded maximum duration, discarding",
		"owner_id", s.req.OwnerID,
		"vault_id", s.req.VaultID,
		"max_duration", s.recorder.maxDuration)
}

// finish moves the session to a terminal state once.
func (s *CaptureSession) finish(state model.CaptureState, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finishLocked(state, err)
}

func (s *CaptureSession) finishLocked(state model.CaptureState, err error) {
	if s.state.Terminal() {
		return
	}
	s.state = state
	s.err = err
	close(s.done)
}

func (s *CaptureSession) newItem(event model.CaptureEvent) (model.NewItem, error) {
	name := s.req.Name
	if name == "" {
		name = event.OriginalName
	}
	if name == "" {
		name = fmt.Sprintf("%s %s", s.req.Type, time.Now().UTC().Format("2006-01-02 15:04:05"))
	}
	size := int64(len(event.Data))

	if s.req.Type == model.ItemTypeVideo {
		return model.NewVideoItem(name, event.OriginalName, size, model.Video{
			DurationSeconds: event.DurationSeconds,
			Resolution:      event.Resolution,
			Format:          event.Format,
		})
	}
	return model.NewPhotoItem(name, event.OriginalName, size, model.Photo{
		Format:     event.Format,
		Resolution: event.Resolution,
	})
}
