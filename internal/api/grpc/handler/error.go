package handler

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/mediavault-server/internal/model"
)

func handleError(err error) error {
	var (
		quotaErr      *model.QuotaExceededError
		validationErr *model.ValidationError
	)

	switch {
	case errors.Is(err, model.ErrNotAuthenticated):
		return status.Error(codes.Unauthenticated, "not authenticated")
	case errors.As(err, &quotaErr):
		return status.Error(codes.ResourceExhausted, quotaErr.Reason)
	case errors.As(err, &validationErr):
		return status.Error(codes.InvalidArgument, validationErr.Error())
	case errors.Is(err, model.ErrNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, model.ErrCaptureInProgress):
		return status.Error(codes.FailedPrecondition, model.ErrCaptureInProgress.Error())
	case errors.Is(err, model.ErrCaptureClosed):
		return status.Error(codes.FailedPrecondition, model.ErrCaptureClosed.Error())
	case errors.Is(err, model.ErrCaptureTimeout):
		return status.Error(codes.DeadlineExceeded, model.ErrCaptureTimeout.Error())
	case errors.Is(err, model.ErrPartialDelete), errors.Is(err, model.ErrTransient):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request cancelled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	default:
		return status.Error(codes.Internal, "internal server error")
	}
}
