package statsRepo

import (
	"context"
	"fmt"
	"time"

	"fieldops/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Apply increments the technician's running counters and membership lists in
// one upserted UpdateOne. The filter excludes aggregates that already list
// the order id, so a replayed delta matches nothing; the resulting upsert
// insert then collides on _id and surfaces as a duplicate-key error, which
// is the signal that the contribution already landed. The guard is keyed on
// the order id uniformly for every counter.
func (r *mongoStatsRepo) Apply(ctx context.Context, technician string, delta models.AggregateDelta) (ApplyOutcome, error) {
	if technician == "" {
		return OutcomeFailed, fmt.Errorf("technician name is required")
	}
	if delta.OrderID == "" {
		return OutcomeFailed, fmt.Errorf("delta has no order id")
	}

	filter := bson.M{
		"_id":      technician,
		"orderIds": bson.M{"$ne": delta.OrderID},
	}

	inc := bson.M{"totalOrders": 1}
	switch delta.OrderType {
	case models.OrderTypeSecondary:
		inc["secondaryCount"] = 1
	default:
		inc["primaryCount"] = 1
	}
	addToSet := bson.M{"orderIds": delta.OrderID}
	if delta.ApprovedBudget > 0 {
		inc["approvedBudgetSum"] = delta.ApprovedBudget
		addToSet["budgetOrderIds"] = delta.OrderID
	}
	if delta.Cleaning {
		inc["cleaningCount"] = 1
		addToSet["cleaningOrderIds"] = delta.OrderID
	}

	update := bson.M{
		"$inc":      inc,
		"$addToSet": addToSet,
		"$set":      bson.M{"updatedAt": time.Now()},
	}
	opts := options.Update().SetUpsert(true)

	res, err := r.coll.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return OutcomeAlreadyApplied, nil
		}
		return OutcomeFailed, fmt.Errorf("failed to apply aggregate delta for %s: %w", technician, err)
	}
	if res.UpsertedCount > 0 {
		return OutcomeCreated, nil
	}
	return OutcomeApplied, nil
}

// GetByTechnician returns one aggregate document, or nil when the technician
// has not contributed yet.
func (r *mongoStatsRepo) GetByTechnician(ctx context.Context, technician string) (*models.TechnicianStats, error) {
	var stats models.TechnicianStats
	err := r.coll.FindOne(ctx, bson.M{"_id": technician}).Decode(&stats)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// Ranking returns aggregates ordered by total orders, busiest first.
func (r *mongoStatsRepo) Ranking(ctx context.Context, limit int64) ([]models.TechnicianStats, error) {
	opts := options.Find().SetSort(bson.D{{Key: "totalOrders", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.TechnicianStats
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Technicians lists every technician that has an aggregate document.
func (r *mongoStatsRepo) Technicians(ctx context.Context) ([]string, error) {
	values, err := r.coll.Distinct(ctx, "_id", bson.M{})
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			names = append(names, s)
		}
	}
	return names, nil
}
