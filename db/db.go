package db

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection    *mongo.Collection
	AadhaarCollection *mongo.Collection
	OrdersCollection  *mongo.Collection
	Client            *mongo.Client
)

// Init connects to MongoDB and binds the collections. A connection failure
// at startup is fatal; the process exits.
func Init(uri, database string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error
	Client, err = mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	if err = Client.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to reach MongoDB: %v", err)
	}

	UserCollection = Client.Database(database).Collection("users")
	AadhaarCollection = Client.Database(database).Collection("aadhaar")
	OrdersCollection = Client.Database(database).Collection("orders")

	if err := ensureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}
}

// ensureIndexes enforces orderId uniqueness at the store level. The client
// generates time-based order IDs with no collision check, so the store is
// the backstop.
func ensureIndexes(ctx context.Context) error {
	_, err := OrdersCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"orderId": 1},
		Options: options.Index().SetUnique(true).SetName("unique_order_id"),
	})
	if err != nil {
		return err
	}
	_, err = UserCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"username": 1},
		Options: options.Index().SetUnique(true).SetName("unique_username"),
	})
	return err
}

// Close disconnects the client. Used on graceful shutdown.
func Close(ctx context.Context) {
	if Client == nil {
		return
	}
	if err := Client.Disconnect(ctx); err != nil {
		log.Printf("Error disconnecting MongoDB: %v", err)
	}
}
