package cloud

import "fmt"

// UsageError reports caller misuse of a command: wrong argument count, LOGIN
// while logged in, LOGOUT while logged out. These are not environmental
// failures and must not be retried.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

// usageErrorf builds a UsageError.
func usageErrorf(format string, v ...any) error {
	return &UsageError{Message: fmt.Sprintf(format, v...)}
}
