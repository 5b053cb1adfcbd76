// Package mocks contains testify mocks for the interfaces consumed by the
// gRPC layer.
package mocks
