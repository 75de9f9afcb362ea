// File: models/queue.go
package models

import "time"

// QueueItem is the durable envelope for a submission that could not reach
// the remote store. It lives in the local store until its write path fully
// succeeds.
type QueueItem struct {
	ID         int64               `json:"id"`
	Payload    WorkOrderSubmission `json:"payload"`
	Delta      AggregateDelta      `json:"delta"`
	EnqueuedAt time.Time           `json:"enqueuedAt"`
}

// DrainResult summarizes one pass over the queue.
type DrainResult struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}
