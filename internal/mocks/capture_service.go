package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/mediavault-server/internal/model"
	"github.com/dtroode/mediavault-server/internal/service"
)

// CaptureService is a mock type for the handler.CaptureService type.
type CaptureService struct {
	mock.Mock
}

// StartCapture provides a mock function with given fields: ctx, req
func (_m *CaptureService) StartCapture(ctx context.Context, req service.CaptureRequest) (*service.CaptureSession, error) {
	ret := _m.Called(ctx, req)

	var s *service.CaptureSession
	if ret.Get(0) != nil {
		s = ret.Get(0).(*service.CaptureSession)
	}
	return s, ret.Error(1)
}

// CompleteCapture provides a mock function with given fields: ctx, ownerID, sessionID, event
func (_m *CaptureService) CompleteCapture(ctx context.Context, ownerID, sessionID uuid.UUID, event model.CaptureEvent) (model.Item, error) {
	return item(_m.Called(ctx, ownerID, sessionID, event))
}

// AbortCapture provides a mock function with given fields: ctx, ownerID, sessionID
func (_m *CaptureService) AbortCapture(ctx context.Context, ownerID, sessionID uuid.UUID) error {
	return _m.Called(ctx, ownerID, sessionID).Error(0)
}

// NewCaptureService creates a new instance of CaptureService. It also registers a cleanup function to assert the mocks expectations.
func NewCaptureService(t interface {
	mock.TestingT
	Cleanup(func())
}) *CaptureService {
	m := &CaptureService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
