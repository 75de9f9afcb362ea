package orderRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ensureIndexes creates the partition-key index the write path relies on.
func (r *mongoOrderRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "technician", Value: 1},
				{Key: "date", Value: 1},
				{Key: "orderType", Value: 1},
				{Key: "orderId", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := r.orders.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create work order indexes: %w", err)
	}
	return nil
}
