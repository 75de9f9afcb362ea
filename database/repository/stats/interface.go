package statsRepo

import (
	"context"

	"fieldops/database"
	"fieldops/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ApplyOutcome tags the result of an aggregate upsert.
type ApplyOutcome int

const (
	// OutcomeFailed means the delta was not applied; the accompanying error
	// says why.
	OutcomeFailed ApplyOutcome = iota
	// OutcomeApplied means an existing aggregate was incremented in place.
	OutcomeApplied
	// OutcomeCreated means no aggregate existed and one was created from the delta.
	OutcomeCreated
	// OutcomeAlreadyApplied means the order id had already contributed;
	// nothing was changed.
	OutcomeAlreadyApplied
)

func (o ApplyOutcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeCreated:
		return "created"
	case OutcomeAlreadyApplied:
		return "already_applied"
	default:
		return "failed"
	}
}

// StatsRepository applies per-submission deltas to the technicianStats
// aggregates. Apply is a single logical operation: either the whole delta
// lands (counters plus membership entries) or none of it does.
type StatsRepository interface {
	Apply(ctx context.Context, technician string, delta models.AggregateDelta) (ApplyOutcome, error)
	GetByTechnician(ctx context.Context, technician string) (*models.TechnicianStats, error)
	Ranking(ctx context.Context, limit int64) ([]models.TechnicianStats, error)
	Technicians(ctx context.Context) ([]string, error)
}

type mongoStatsRepo struct {
	coll *mongo.Collection
}

// NewMongoStatsRepo returns a new StatsRepository instance using MongoDB.
func NewMongoStatsRepo() StatsRepository {
	db := database.MongoClient.Database(database.Name())
	return &mongoStatsRepo{
		coll: db.Collection("technicianStats"),
	}
}
