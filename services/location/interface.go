package location

import (
	"context"

	"fieldops/models"
)

// AcquireFailureReason classifies why a position could not be acquired.
type AcquireFailureReason string

const (
	ReasonPermissionDenied AcquireFailureReason = "permission_denied"
	ReasonUnavailable      AcquireFailureReason = "position_unavailable"
	ReasonTimeout          AcquireFailureReason = "timeout"
)

// UnavailableError signals that no position could be produced. The caller
// must surface it; a submission cannot be accepted without a sample.
type UnavailableError struct {
	Reason AcquireFailureReason
}

func (e UnavailableError) Error() string {
	return "location unavailable: " + string(e.Reason)
}

// PositionProvider produces device position readings. Implementations must
// honour ctx cancellation and resolve to an explicit error rather than hang.
type PositionProvider interface {
	Current(ctx context.Context) (models.LocationSample, error)
}

// HistorySink is the slice of the tracking repository the sampler writes
// through.
type HistorySink interface {
	SetLive(ctx context.Context, technician string, sample models.LocationSample) error
	AppendHistory(ctx context.Context, technician string, sample models.LocationSample) (string, error)
}
