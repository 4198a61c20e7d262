package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrMissingFields is returned when registration is missing a required field.
	ErrMissingFields = errors.New("missing required fields")
	// ErrInvalidCredentials is returned when username or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserAlreadyExists is returned when a username is already registered.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrCommentTextRequired is returned when a comment has no text.
	ErrCommentTextRequired = errors.New("comment text is required")
	// ErrInvalidPostID is returned when a post id is not a valid identifier.
	ErrInvalidPostID = errors.New("invalid post id")
	// ErrInvalidCommentID is returned when a comment id is not a valid identifier.
	ErrInvalidCommentID = errors.New("invalid comment id")
	// ErrPostNotFound is returned when a comment targets a post that does not exist.
	ErrPostNotFound = errors.New("post not found")
	// ErrUploadFailed is returned when an attachment could not be stored.
	ErrUploadFailed = errors.New("upload failed")
)

// domainErrors maps each client-facing sentinel to its status and message.
var domainErrors = []struct {
	err     error
	status  int
	message string
}{
	{ErrMissingFields, http.StatusBadRequest, "All fields are required"},
	{ErrInvalidCredentials, http.StatusBadRequest, "Invalid credentials"},
	{ErrCommentTextRequired, http.StatusBadRequest, "Comment text is required"},
	{ErrInvalidPostID, http.StatusBadRequest, "Invalid post ID"},
	{ErrInvalidCommentID, http.StatusBadRequest, "Invalid comment ID"},
	{ErrUserAlreadyExists, http.StatusConflict, "Username already taken"},
	{ErrPostNotFound, http.StatusNotFound, "Post not found"},
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{Message: e.Message}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything unrecognised is a
// storage or infrastructure failure and gets the caller's fallback message.
func MapErrorToHTTP(err error, fallback string) *HTTPError {
	for _, d := range domainErrors {
		if errors.Is(err, d.err) {
			return NewHTTPError(d.status, d.message)
		}
	}
	return NewHTTPError(http.StatusInternalServerError, fallback)
}
