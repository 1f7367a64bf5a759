package handlers

// UserError is a failure the initiating client should be told about. These
// are not system failures, just invalid or impossible requests; the session
// loop turns them into an error event and the connection survives.
type UserError struct {
	Message string
	Err     error
}

func (e *UserError) Error() string {
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a user-facing error with no underlying cause.
func NewUserError(msg string) *UserError {
	return &UserError{Message: msg}
}

// userError wraps a domain sentinel with the message the client sees, so
// callers can still match the sentinel with errors.Is.
func userError(err error, msg string) *UserError {
	return &UserError{Message: msg, Err: err}
}
