package submission

import (
	"context"

	"fieldops/models"
)

// SubmitStatus tells the caller where the submission ended up.
type SubmitStatus string

const (
	// StatusDelivered means the full remote write path succeeded.
	StatusDelivered SubmitStatus = "delivered"
	// StatusQueued means the submission is durably saved offline and will
	// be replayed on the next connectivity event.
	StatusQueued SubmitStatus = "queued"
)

// SubmissionInput is the validated form payload from the UI layer.
type SubmissionInput struct {
	OrderID        string           `json:"orderId"`
	Technician     string           `json:"technician"`
	OrderType      models.OrderType `json:"orderType"`
	ClientName     string           `json:"clientName"`
	DefectCode     string           `json:"defectCode"`
	RepairCode     string           `json:"repairCode"`
	ReplacedPart   string           `json:"replacedPart"`
	Notes          string           `json:"notes"`
	ApprovedBudget float64          `json:"approvedBudget"`
	CleaningDone   bool             `json:"cleaningDone"`
}

// SubmissionService accepts work-order reports and guarantees none is lost.
type SubmissionService interface {
	Submit(ctx context.Context, input SubmissionInput) (SubmitStatus, error)
}

// PositionSource produces the location sample a submission must carry.
type PositionSource interface {
	Acquire(ctx context.Context) (models.LocationSample, error)
}

// SampleRecorder persists a submission-linked location sample.
type SampleRecorder interface {
	RecordForSubmission(ctx context.Context, technician string, sample models.LocationSample, orderID string) (string, error)
}

// Enricher schedules best-effort annotation of a history entry (reverse
// geocoding). Implementations must be fire-and-forget.
type Enricher interface {
	Schedule(technician, entryID string, lat, lon float64)
}
