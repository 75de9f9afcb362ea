package submission

import (
	"context"
	"regexp"
	"strings"
	"time"

	"fieldops/models"
	"fieldops/services/queue"
	syncsvc "fieldops/services/sync"

	"go.uber.org/zap"
)

// Order id shapes per vendor programme.
var (
	primaryOrderPattern   = regexp.MustCompile(`^417\d{7}$`)
	secondaryOrderPattern = regexp.MustCompile(`^\d{8}$`)
)

// DefaultSubmissionService accepts validated reports and routes them down
// the online write path or into the offline queue. A network failure never
// surfaces as a hard error: the submission degrades to the queue instead.
type DefaultSubmissionService struct {
	Position PositionSource
	Queue    queue.QueueService
	Writer   queue.SubmissionWriter
	Monitor  syncsvc.ConnectivityMonitor
	Logger   *zap.Logger

	// DeliverTimeout bounds the live write path attempt.
	DeliverTimeout time.Duration

	now func() time.Time
}

// NewDefaultSubmissionService wires the service with a real clock.
func NewDefaultSubmissionService(position PositionSource, q queue.QueueService, writer queue.SubmissionWriter, monitor syncsvc.ConnectivityMonitor, logger *zap.Logger, deliverTimeout time.Duration) *DefaultSubmissionService {
	return &DefaultSubmissionService{
		Position:       position,
		Queue:          q,
		Writer:         writer,
		Monitor:        monitor,
		Logger:         logger,
		DeliverTimeout: deliverTimeout,
		now:            time.Now,
	}
}

// Submit validates the input, attaches a location sample and delivers the
// submission, falling back to the offline queue whenever the remote store
// is unreachable.
func (s *DefaultSubmissionService) Submit(ctx context.Context, input SubmissionInput) (SubmitStatus, error) {
	if err := validate(input); err != nil {
		return "", err
	}

	// A submission is not accepted without a position; location failures
	// block and must be surfaced to the technician.
	sample, err := s.Position.Acquire(ctx)
	if err != nil {
		return "", err
	}

	sub := models.WorkOrderSubmission{
		OrderID:        strings.TrimSpace(input.OrderID),
		Technician:     strings.TrimSpace(input.Technician),
		OrderType:      input.OrderType,
		ClientName:     strings.TrimSpace(input.ClientName),
		DefectCode:     input.DefectCode,
		RepairCode:     input.RepairCode,
		ReplacedPart:   input.ReplacedPart,
		Notes:          input.Notes,
		ApprovedBudget: input.ApprovedBudget,
		CleaningDone:   input.CleaningDone,
		CreatedAtLocal: s.now(),
		LocationSample: &sample,
	}
	delta := models.DeltaFor(sub)

	if !s.Monitor.Online() {
		if err := s.Queue.Enqueue(ctx, sub, delta); err != nil {
			return "", err
		}
		return StatusQueued, nil
	}

	deliverCtx := ctx
	if s.DeliverTimeout > 0 {
		var cancel context.CancelFunc
		deliverCtx, cancel = context.WithTimeout(ctx, s.DeliverTimeout)
		defer cancel()
	}

	if err := s.Writer.Deliver(deliverCtx, sub, delta); err != nil {
		// Online but the write failed: capture into the queue rather than
		// discard, then report the degraded outcome.
		s.Logger.Warn("online delivery failed, falling back to offline queue",
			zap.String("orderId", sub.OrderID),
			zap.Error(RemoteWriteError{OrderID: sub.OrderID, Err: err}))
		if qErr := s.Queue.Enqueue(ctx, sub, delta); qErr != nil {
			return "", qErr
		}
		return StatusQueued, nil
	}

	s.Logger.Info("submission delivered",
		zap.String("orderId", sub.OrderID),
		zap.String("technician", sub.Technician))
	return StatusDelivered, nil
}

func validate(input SubmissionInput) error {
	orderID := strings.TrimSpace(input.OrderID)
	technician := strings.TrimSpace(input.Technician)
	client := strings.TrimSpace(input.ClientName)

	if !input.OrderType.Valid() {
		return ValidationError{Field: "orderType", Message: "must be primary or secondary"}
	}
	switch input.OrderType {
	case models.OrderTypePrimary:
		if !primaryOrderPattern.MatchString(orderID) {
			return ValidationError{Field: "orderId", Message: "primary vendor orders match 417XXXXXXX"}
		}
	case models.OrderTypeSecondary:
		if !secondaryOrderPattern.MatchString(orderID) {
			return ValidationError{Field: "orderId", Message: "secondary vendor orders are 8 digits"}
		}
	}
	if technician == "" {
		return ValidationError{Field: "technician", Message: "required"}
	}
	if client == "" {
		return ValidationError{Field: "clientName", Message: "required"}
	}
	if input.ApprovedBudget < 0 {
		return ValidationError{Field: "approvedBudget", Message: "must not be negative"}
	}
	return nil
}
