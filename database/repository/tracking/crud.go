package trackingRepo

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"fieldops/models"
	"fieldops/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetLive overwrites the technician's live pointer and mirrors it into the
// cache. The cache write is best effort; the document store is the source
// of truth.
func (r *mongoTrackingRepo) SetLive(ctx context.Context, technician string, sample models.LocationSample) error {
	loc := models.LiveLocation{
		Technician: technician,
		Sample:     sample,
		UpdatedAt:  time.Now(),
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.live.ReplaceOne(ctx, bson.M{"_id": technician}, loc, opts); err != nil {
		return fmt.Errorf("failed to write live location for %s: %w", technician, err)
	}

	if r.cache != nil {
		if err := r.cacheLive(ctx, loc); err != nil {
			log.Printf("warning: failed to cache live location: %v", err)
		}
	}
	return nil
}

func (r *mongoTrackingRepo) cacheLive(ctx context.Context, loc models.LiveLocation) error {
	bytes, err := json.Marshal(loc)
	if err != nil {
		return err
	}
	key := utils.LiveLocationCachePrefix + loc.Technician
	return r.cache.Set(ctx, key, bytes, utils.LiveLocationCacheTTL).Err()
}

// GetLive reads the live pointer, preferring the cache.
func (r *mongoTrackingRepo) GetLive(ctx context.Context, technician string) (*models.LiveLocation, error) {
	if r.cache != nil {
		data, err := r.cache.Get(ctx, utils.LiveLocationCachePrefix+technician).Result()
		if err == nil {
			var loc models.LiveLocation
			if err := json.Unmarshal([]byte(data), &loc); err == nil {
				return &loc, nil
			}
		}
	}

	var loc models.LiveLocation
	err := r.live.FindOne(ctx, bson.M{"_id": technician}).Decode(&loc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

// AllLive returns every technician's last known position, freshest first.
func (r *mongoTrackingRepo) AllLive(ctx context.Context) ([]models.LiveLocation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cursor, err := r.live.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.LiveLocation
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AppendHistory inserts one admitted sample into the trail and returns the
// new entry's id.
func (r *mongoTrackingRepo) AppendHistory(ctx context.Context, technician string, sample models.LocationSample) (string, error) {
	entry := models.LocationHistoryEntry{
		ID:         uuid.New().String(),
		Technician: technician,
		Sample:     sample,
		CreatedAt:  time.Now(),
	}
	if _, err := r.history.InsertOne(ctx, entry); err != nil {
		return "", fmt.Errorf("failed to append location history for %s: %w", technician, err)
	}
	return entry.ID, nil
}

// SetHistoryCity patches the reverse-geocoded city onto an existing entry.
func (r *mongoTrackingRepo) SetHistoryCity(ctx context.Context, entryID, city string) error {
	res, err := r.history.UpdateOne(ctx,
		bson.M{"id": entryID},
		bson.M{"$set": bson.M{"sample.city": city}},
	)
	if err != nil {
		return fmt.Errorf("failed to set city on history entry %s: %w", entryID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("history entry %s not found", entryID)
	}
	return nil
}

// HistoryRange returns the trail inside [from, to], newest first.
func (r *mongoTrackingRepo) HistoryRange(ctx context.Context, technician string, from, to time.Time) ([]models.LocationHistoryEntry, error) {
	filter := bson.M{
		"technician":        technician,
		"sample.capturedAt": bson.M{"$gte": from, "$lte": to},
	}
	opts := options.Find().SetSort(bson.D{{Key: "sample.capturedAt", Value: -1}})
	cursor, err := r.history.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.LocationHistoryEntry
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// LastHistory returns the most recent trail entry, or nil when none exists.
func (r *mongoTrackingRepo) LastHistory(ctx context.Context, technician string) (*models.LocationHistoryEntry, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "sample.capturedAt", Value: -1}})
	var entry models.LocationHistoryEntry
	err := r.history.FindOne(ctx, bson.M{"technician": technician}, opts).Decode(&entry)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
