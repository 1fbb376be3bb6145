package usecase

import (
	"context"
	"errors"
	"net/http"

	"see-eat-backend/internal/domain"
	"see-eat-backend/pkg/apperror"
	"see-eat-backend/pkg/validation"
)

func sessionFrom(ctx context.Context) (domain.Session, error) {
	s, ok := domain.SessionFrom(ctx)
	if !ok {
		return domain.Session{}, apperror.Unauthorized("User not authenticated")
	}
	return s, nil
}

func requireRole(ctx context.Context, roles ...domain.Role) (domain.Session, error) {
	s, err := sessionFrom(ctx)
	if err != nil {
		return s, err
	}
	for _, r := range roles {
		if s.Role == r {
			return s, nil
		}
	}
	return s, apperror.Forbidden("You do not have permission to perform this action")
}

func invalidInput(err error) error {
	return apperror.BadRequest(validation.Summary(err)).WithDetails(validation.FormatValidationErrors(err))
}

// storeErr maps a repository error; notFound is the message for a missing document.
func storeErr(err error, notFound string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotFound):
		return apperror.NotFound(notFound)
	case errors.Is(err, domain.ErrInvalidMenu):
		return apperror.New(http.StatusUnprocessableEntity, "Invalid menu data structure", err)
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.Internal(err)
}
