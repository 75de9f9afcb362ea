package submission

import "fmt"

// ValidationError indicates a malformed submission; it is rejected before
// touching the queue or the remote store.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// RemoteWriteError wraps a failed online delivery. The submission is not
// lost: it has been captured into the offline queue as a safety net.
type RemoteWriteError struct {
	OrderID string
	Err     error
}

func (e RemoteWriteError) Error() string {
	return fmt.Sprintf("remote write failed for order %s: %v", e.OrderID, e.Err)
}

func (e RemoteWriteError) Unwrap() error {
	return e.Err
}
