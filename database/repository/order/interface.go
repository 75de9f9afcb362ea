package orderRepo

import (
	"context"
	"log"

	"fieldops/database"
	"fieldops/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// OrderRepository is the remote document boundary for technician profiles
// and work-order documents. Writes are full overwrites keyed by the
// (technician, date, type, orderId) partition, so re-delivery is safe.
type OrderRepository interface {
	EnsureTechnician(ctx context.Context, name string) error
	PutOrder(ctx context.Context, sub models.WorkOrderSubmission) error
	GetOrder(ctx context.Context, technician, date string, orderType models.OrderType, orderID string) (*models.WorkOrderSubmission, error)
	OrdersForDate(ctx context.Context, technician, date string) ([]models.WorkOrderSubmission, error)
}

type mongoOrderRepo struct {
	technicians *mongo.Collection
	orders      *mongo.Collection
}

// NewMongoOrderRepo returns a new OrderRepository instance using MongoDB.
func NewMongoOrderRepo() OrderRepository {
	db := database.MongoClient.Database(database.Name())
	repo := &mongoOrderRepo{
		technicians: db.Collection("technicians"),
		orders:      db.Collection("work_orders"),
	}
	if err := repo.ensureIndexes(); err != nil {
		log.Printf("warning: %v", err)
	}
	return repo
}
