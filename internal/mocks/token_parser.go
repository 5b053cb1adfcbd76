package mocks

import (
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// TokenParser is a mock type for the middleware.TokenParser type.
type TokenParser struct {
	mock.Mock
}

// ParseAccessToken provides a mock function with given fields: token
func (_m *TokenParser) ParseAccessToken(token string) (uuid.UUID, error) {
	ret := _m.Called(token)

	if rf, ok := ret.Get(0).(func(string) (uuid.UUID, error)); ok {
		return rf(token)
	}
	return ret.Get(0).(uuid.UUID), ret.Error(1)
}

// NewTokenParser creates a new instance of TokenParser. It also registers a cleanup function to assert the mocks expectations.
func NewTokenParser(t interface {
	mock.TestingT
	Cleanup(func())
}) *TokenParser {
	m := &TokenParser{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
