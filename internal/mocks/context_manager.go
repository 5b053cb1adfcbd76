package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// ContextManager is a mock type for the model.ContextManager type.
type ContextManager struct {
	mock.Mock
}

// GetOwnerIDFromContext provides a mock function with given fields: ctx
func (_m *ContextManager) GetOwnerIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	ret := _m.Called(ctx)

	if rf, ok := ret.Get(0).(func(context.Context) (uuid.UUID, bool)); ok {
		return rf(ctx)
	}
	return ret.Get(0).(uuid.UUID), ret.Bool(1)
}

// SetOwnerIDToContext provides a mock function with given fields: ctx, ownerID
func (_m *ContextManager) SetOwnerIDToContext(ctx context.Context, ownerID uuid.UUID) context.Context {
	ret := _m.Called(ctx, ownerID)

	if rf, ok := ret.Get(0).(func(context.Context, uuid.UUID) context.Context); ok {
		return rf(ctx, ownerID)
	}
	if ret.Get(0) == nil {
		return nil
	}
	return ret.Get(0).(context.Context)
}

// NewContextManager creates a new instance of ContextManager. It also registers a cleanup function to assert the mocks expectations.
func NewContextManager(t interface {
	mock.TestingT
	Cleanup(func())
}) *ContextManager {
	m := &ContextManager{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
