package trackingRepo

import (
	"context"
	"time"

	"fieldops/database"
	"fieldops/models"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// TrackingRepository is the remote boundary for the two location
// projections: the mutable per-technician live pointer and the append-only
// history trail.
type TrackingRepository interface {
	SetLive(ctx context.Context, technician string, sample models.LocationSample) error
	GetLive(ctx context.Context, technician string) (*models.LiveLocation, error)
	AllLive(ctx context.Context) ([]models.LiveLocation, error)
	AppendHistory(ctx context.Context, technician string, sample models.LocationSample) (string, error)
	SetHistoryCity(ctx context.Context, entryID, city string) error
	HistoryRange(ctx context.Context, technician string, from, to time.Time) ([]models.LocationHistoryEntry, error)
	LastHistory(ctx context.Context, technician string) (*models.LocationHistoryEntry, error)
}

type mongoTrackingRepo struct {
	live    *mongo.Collection
	history *mongo.Collection
	cache   *redis.Client
}

// NewMongoTrackingRepo returns a new TrackingRepository backed by MongoDB
// with live positions mirrored into Redis.
func NewMongoTrackingRepo(cache *redis.Client) TrackingRepository {
	db := database.MongoClient.Database(database.Name())
	return &mongoTrackingRepo{
		live:    db.Collection("live_locations"),
		history: db.Collection("location_history"),
		cache:   cache,
	}
}
