package errors

import (
	"errors"
	"fmt"
)

// Playlist storage and access errors
var (
	ErrPlaylistNotFound        = errors.New("playlist not found")
	ErrSpecialPlaylistNotFound = errors.New("special playlist not found")
	ErrBrokenFile              = errors.New("playlist file is broken")
	ErrAccessDenied            = errors.New("playlist is owned by someone else")
	ErrNoStoreDirectory        = errors.New("playlist directory does not exist")
	ErrUnsafeName              = errors.New("unsafe playlist name")

	// Header failures; both are broken files
	ErrFileTooNew     = fmt.Errorf("%w: file version is too new", ErrBrokenFile)
	ErrDuplicateOwner = fmt.Errorf("%w: duplicate owner", ErrBrokenFile)

	// I/O failures while deleting
	ErrIOInUse             = errors.New("file is in use")
	ErrIOMissingPermission = errors.New("missing permission to access file")

	// Caller contract violations
	ErrInvalidArgument = errors.New("invalid argument")

	// Queue errors
	ErrQueueEmpty      = errors.New("queue is empty")
	ErrQueueFull       = errors.New("queue is full")
	ErrInvalidPosition = errors.New("invalid queue position")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
	ErrNoPermission = errors.New("insufficient permissions")
)

// UserError wraps an error with a user-friendly message
type UserError struct {
	Err     error
	Message string
}

func (e *UserError) Error() string {
	return e.Err.Error()
}

func (e *UserError) Unwrap() error {
	return e.Err
}

func (e *UserError) UserMessage() string {
	return e.Message
}

// NewUserError creates a new user error
func NewUserError(err error, message string) *UserError {
	return &UserError{
		Err:     err,
		Message: message,
	}
}

// WrapUserError wraps an error with a user-friendly message
func WrapUserError(err error, format string, args ...interface{}) *UserError {
	return &UserError{
		Err:     err,
		Message: fmt.Sprintf(format, args...),
	}
}

// messages is checked in order, so more specific errors come first.
var messages = []struct {
	err error
	msg string
}{
	{ErrFileTooNew, "The playlist file version is too new and can't be read"},
	{ErrDuplicateOwner, "The playlist file is broken (duplicate owner)"},
	{ErrBrokenFile, "The playlist file is broken"},
	{ErrSpecialPlaylistNotFound, "No special playlist with this name exists"},
	{ErrPlaylistNotFound, "Playlist not found"},
	{ErrAccessDenied, "You cannot access a playlist you don't own"},
	{ErrNoStoreDirectory, "The playlist directory does not exist"},
	{ErrUnsafeName, "The playlist name contains invalid characters"},
	{ErrIOInUse, "The file is currently in use"},
	{ErrIOMissingPermission, "Missing permission to access the file"},
	{ErrQueueEmpty, "The queue is empty. Use `/add` to add songs"},
	{ErrQueueFull, "The queue is full. Remove or clear some songs first"},
	{ErrInvalidPosition, "There is no song at that position"},
	{ErrNoPermission, "You don't have permission to do that"},
	{ErrInvalidInput, "Invalid input"},
}

// GetUserMessage extracts user-friendly message from error
func GetUserMessage(err error) string {
	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr.UserMessage()
	}

	for _, m := range messages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return "An error occurred. Please try again later"
}
