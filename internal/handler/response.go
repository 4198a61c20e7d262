package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "postboard/internal/errors"
	"postboard/internal/middleware"
)

// errorResponse maps err onto the status and message clients expect. Storage
// failures get fallback as their message.
func errorResponse(err error, fallback string) *echo.HTTPError {
	httpErr := apperrors.MapErrorToHTTP(err, fallback)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
}

func badRequest(message string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{Message: message})
}

// bindError reports a request body that could not be decoded. A body cut off
// by the size limit keeps its 413.
func bindError(err error) error {
	if errors.Is(err, echo.ErrStatusRequestEntityTooLarge) {
		return echo.ErrStatusRequestEntityTooLarge
	}
	return badRequest("Invalid request body")
}

// authorID returns the id of the authenticated caller.
func authorID(c echo.Context) (uuid.UUID, error) {
	claims, ok := middleware.Identity(c)
	if !ok {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{Message: "No token, authorization denied"})
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{Message: "Token is not valid"})
	}
	return id, nil
}
