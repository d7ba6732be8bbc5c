package service

import (
	"errors"

	"github.com/spec-kit/service-orders/internal/lifecycle"
	"github.com/spec-kit/service-orders/internal/repository"
	apperrors "github.com/spec-kit/service-orders/pkg/util/errorutil"
)

// mapStoreError translates store and lifecycle failures into DomainErrors.
func mapStoreError(resource, id string, err error) error {
	if err == nil {
		return nil
	}
	var validationErr *lifecycle.ValidationError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound(resource, map[string]any{"id": id})
	case errors.As(err, &validationErr):
		return apperrors.NewMissingFieldsError(validationErr.MissingFields, err)
	}
	return apperrors.MapError(err)
}
