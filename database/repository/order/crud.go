package orderRepo

import (
	"context"
	"fmt"
	"time"

	"fieldops/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureTechnician creates or refreshes the profile marker document.
// Merge-style upsert: concurrent callers for the same name are harmless.
func (r *mongoOrderRepo) EnsureTechnician(ctx context.Context, name string) error {
	filter := bson.M{"_id": name}
	update := bson.M{
		"$set":         bson.M{"name": name, "updatedAt": time.Now()},
		"$setOnInsert": bson.M{"createdAt": time.Now()},
	}
	opts := options.Update().SetUpsert(true)

	if _, err := r.technicians.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert technician profile: %w", err)
	}
	return nil
}

// PutOrder writes the work-order document. The whole document is replaced,
// never merged, so replaying a partially delivered queue item converges on
// the same remote state.
func (r *mongoOrderRepo) PutOrder(ctx context.Context, sub models.WorkOrderSubmission) error {
	filter := bson.M{
		"technician": sub.Technician,
		"date":       sub.DateString(),
		"orderType":  sub.OrderType,
		"orderId":    sub.OrderID,
	}
	doc := orderDocument{
		Technician:          sub.Technician,
		Date:                sub.DateString(),
		OrderType:           sub.OrderType,
		OrderID:             sub.OrderID,
		WorkOrderSubmission: sub,
	}
	opts := options.Replace().SetUpsert(true)

	if _, err := r.orders.ReplaceOne(ctx, filter, doc, opts); err != nil {
		return fmt.Errorf("failed to write work order %s: %w", sub.OrderID, err)
	}
	return nil
}

// GetOrder returns one work-order document, or nil when absent.
func (r *mongoOrderRepo) GetOrder(ctx context.Context, technician, date string, orderType models.OrderType, orderID string) (*models.WorkOrderSubmission, error) {
	filter := bson.M{
		"technician": technician,
		"date":       date,
		"orderType":  orderType,
		"orderId":    orderID,
	}
	var doc orderDocument
	err := r.orders.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc.WorkOrderSubmission, nil
}

// OrdersForDate lists a technician's orders for one date partition.
func (r *mongoOrderRepo) OrdersForDate(ctx context.Context, technician, date string) ([]models.WorkOrderSubmission, error) {
	cursor, err := r.orders.Find(ctx, bson.M{"technician": technician, "date": date})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []orderDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	subs := make([]models.WorkOrderSubmission, 0, len(docs))
	for _, d := range docs {
		subs = append(subs, d.WorkOrderSubmission)
	}
	return subs, nil
}

// orderDocument flattens the partition key fields next to the inlined
// submission so the compound filter stays indexable.
type orderDocument struct {
	Technician          string                     `bson:"technician"`
	Date                string                     `bson:"date"`
	OrderType           models.OrderType           `bson:"orderType"`
	OrderID             string                     `bson:"orderId"`
	WorkOrderSubmission models.WorkOrderSubmission `bson:"submission"`
}
