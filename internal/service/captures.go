package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/mediavault-server/internal/logger"
	"github.com/dtroode/mediavault-server/internal/model"
)

// Captures keeps one Recorder per owner so every owner has at most one
// capture session open.
type Captures struct {
	backend     CaptureBackend
	maxDuration time.Duration
	logger      *logger.Logger

	mu        sync.Mutex
	recorders map[uuid.UUID]*Recorder
}

// NewCaptures creates the capture session registry.
func NewCaptures(backend CaptureBackend, maxDuration time.Duration, logger *logger.Logger) *Captures {
	return &Captures{
		backend:     backend,
		maxDuration: maxDuration,
		logger:      logger,
		recorders:   make(map[uuid.UUID]*Recorder),
	}
}

// StartCapture opens a capture session for req.OwnerID.
func (c *Captures) StartCapture(ctx context.Context, req CaptureRequest) (*CaptureSession, error) {
	if req.OwnerID == uuid.Nil {
		return nil, model.ErrNotAuthenticated
	}
	return c.recorder(req.OwnerID).Start(ctx, req)
}

// CompleteCapture uploads the recording of an open session.
func (c *Captures) CompleteCapture(ctx context.Context, ownerID, sessionID uuid.UUID, event model.CaptureEvent) (model.Item, error) {
	session, err := c.session(ownerID, sessionID)
	if err != nil {
		return model.Item{}, err
	}
	return session.Complete(ctx, event)
}

// AbortCapture discards an open session.
func (c *Captures) AbortCapture(_ context.Context, ownerID, sessionID uuid.UUID) error {
	session, err := c.session(ownerID, sessionID)
	if err != nil {
		return err
	}
	return session.Abort()
}

func (c *Captures) recorder(ownerID uuid.UUID) *Recorder {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.recorders[ownerID]
	if !ok {
		r = NewRecorder(c.backend, c.maxDuration, c.logger)
		c.recorders[ownerID] = r
	}
	return r
}

// session returns the owner's latest session when its id matches. Only the
// latest session is tracked, so an older id is reported as not found.
func (c *Captures) session(ownerID, sessionID uuid.UUID) (*CaptureSession, error) {
	if ownerID == uuid.Nil {
		return nil, model.ErrNotAuthenticated
	}

	c.mu.Lock()
	r, ok := c.recorders[ownerID]
	c.mu.Unlock()
	if !ok {
		return nil, model.ErrNotFound
	}

	active := r.Active()
	if active == nil || active.ID() != sessionID {
		return nil, model.ErrNotFound
	}
	return active, nil
}
