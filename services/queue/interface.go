package queue

import (
	"context"

	"fieldops/models"
)

// SubmissionWriter is the full remote write path for one submission. Both
// the live online path and the drain replay go through the same writer, so
// a replayed item exercises exactly the delivery logic the online path
// would have.
type SubmissionWriter interface {
	Deliver(ctx context.Context, sub models.WorkOrderSubmission, delta models.AggregateDelta) error
}

// Store is the durable local persistence the queue sits on.
type Store interface {
	Append(ctx context.Context, item models.QueueItem) (int64, error)
	List(ctx context.Context) ([]models.QueueItem, error)
	Remove(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// QueueService never loses a validated submission that could not be
// delivered.
type QueueService interface {
	Enqueue(ctx context.Context, sub models.WorkOrderSubmission, delta models.AggregateDelta) error
	Drain(ctx context.Context, writer SubmissionWriter) (models.DrainResult, error)
	Pending(ctx context.Context) ([]models.QueueItem, error)
	Len(ctx context.Context) (int, error)
}
