package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ovenlight/storefront/internal/domain"
)

type mongoSnapshot struct {
	ID        string         `bson:"_id"`
	Cart      []snapshotLine `bson:"cart"`
	Timestamp int64          `bson:"timestamp"`
}

func NewMongoStore(collection *mongo.Collection) *MongoStore {
	return &MongoStore{
		collection: collection,
		key:        Key,
	}
}

// MongoStore keeps the cart snapshot as a single upserted document.
type MongoStore struct {
	collection *mongo.Collection
	key        string
}

func ConnectMongo(ctx context.Context, uri, dbName string) (*mongo.Collection, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return client.Database(dbName).Collection("cart_snapshots"), nil
}

func (m *MongoStore) Save(ctx context.Context, lines []domain.CartLine) error {
	snap := makeSnapshot(lines, time.Now())

	filter := bson.M{"_id": m.key}
	update := bson.M{"$set": bson.M{"cart": snap.Cart, "timestamp": snap.Timestamp}}
	opts := options.Update().SetUpsert(true)

	if _, err := m.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert cart snapshot: %w", err)
	}
	return nil
}

func (m *MongoStore) Load(ctx context.Context) ([]domain.CartLine, error) {
	var doc mongoSnapshot
	err := m.collection.FindOne(ctx, bson.M{"_id": m.key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cart snapshot: %w", err)
	}

	snap := snapshot{Cart: doc.Cart, Timestamp: doc.Timestamp}
	lines, expired := snap.restore(time.Now())
	if expired {
		if err := m.Clear(ctx); err != nil {
			log.Printf("failed to clear expired cart snapshot: %v", err)
		}
		return nil, nil
	}
	return lines, nil
}

func (m *MongoStore) Clear(ctx context.Context) error {
	if _, err := m.collection.DeleteOne(ctx, bson.M{"_id": m.key}); err != nil {
		return fmt.Errorf("failed to delete cart snapshot: %w", err)
	}
	return nil
}
