package service

import (
	"errors"
	"fmt"

	"github.com/dtroode/mediavault-server/internal/model"
)

// storeError classifies a store failure. Definitive outcomes (not found,
// invalid input) are wrapped; anything else is transient.
func storeError(op string, err error) error {
	if errors.Is(err, model.ErrNotFound) || errors.Is(err, model.ErrInvalidArgument) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return model.NewTransientError(op, err)
}
