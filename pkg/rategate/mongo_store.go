package rategate

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// CollectionName holds one document per emailed postcard.
const CollectionName = "postcards"

// UsageRecord is the stored document.
type UsageRecord struct {
	SenderEmail string    `bson:"senderEmail"`
	CreatedAt   time.Time `bson:"createdAt"`
}

// Collection is the subset of *mongo.Collection used by MongoStore.
type Collection interface {
	CountDocuments(ctx context.Context, filter any, opts ...options.Lister[options.CountOptions]) (int64, error)
	InsertOne(ctx context.Context, document any, opts ...options.Lister[options.InsertOneOptions]) (*mongo.InsertOneResult, error)
}

type MongoStore struct {
	coll Collection
}

func NewMongoStore(coll Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

// EnsureIndexes creates the compound index serving Count.
func EnsureIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "senderEmail", Value: 1}, {Key: "createdAt", Value: 1}},
	})
	return err
}

func (s *MongoStore) Count(ctx context.Context, email string, from, to time.Time) (int, error) {
	n, err := s.coll.CountDocuments(ctx, bson.D{
		{Key: "senderEmail", Value: email},
		{Key: "createdAt", Value: bson.D{
			{Key: "$gte", Value: from},
			{Key: "$lt", Value: to},
		}},
	})
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *MongoStore) Record(ctx context.Context, email string, at time.Time) error {
	_, err := s.coll.InsertOne(ctx, UsageRecord{SenderEmail: email, CreatedAt: at})
	return err
}
