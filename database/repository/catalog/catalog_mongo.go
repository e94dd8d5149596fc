package catalogRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const CollectionName = "services"

// MongoServiceRepo implements ServiceRepository using MongoDB.
type MongoServiceRepo struct {
	coll *mongo.Collection
}

func NewMongoServiceRepo(db *mongo.Database) *MongoServiceRepo {
	return &MongoServiceRepo{coll: db.Collection(CollectionName)}
}

func (r *MongoServiceRepo) GetByID(ctx context.Context, id string) (*models.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var service models.Service
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&service); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("service %s: %w", id, ErrServiceNotFound)
		}
		return nil, fmt.Errorf("failed to fetch service %s: %w", id, err)
	}
	return &service, nil
}
