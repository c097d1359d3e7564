package orders

import (
	"context"
	"time"

	"agni/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the durable order record. Orders are keyed by orderId; listing
// returns newest first.
type Store interface {
	Insert(ctx context.Context, order models.Order) error
	All(ctx context.Context) ([]models.Order, error)
	FindByID(ctx context.Context, orderID string) (models.Order, error)
	SetPaymentStatus(ctx context.Context, orderID, status string, confirmed bool) error
	SetReview(ctx context.Context, orderID string, review models.Review) error
	SetComplaint(ctx context.Context, orderID string, complaint models.Complaint) error
}

// MongoStore persists orders in the orders collection. The unique index on
// orderId (created at startup) turns client-generated ID collisions into
// ErrDuplicateOrderID instead of silent overwrites.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

func (s *MongoStore) Insert(ctx context.Context, order models.Order) error {
	res, err := s.coll.InsertOne(ctx, order)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateOrderID
		}
		return err
	}
	if res.InsertedID == nil {
		return ErrPersistenceFailure
	}
	return nil
}

func (s *MongoStore) All(ctx context.Context) ([]models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var all []models.Order
	if err := cur.All(ctx, &all); err != nil {
		return nil, err
	}
	return all, nil
}

func (s *MongoStore) FindByID(ctx context.Context, orderID string) (models.Order, error) {
	var order models.Order
	err := s.coll.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return models.Order{}, ErrOrderNotFound
	}
	return order, err
}

func (s *MongoStore) SetPaymentStatus(ctx context.Context, orderID, status string, confirmed bool) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"orderId": orderID},
		bson.M{"$set": bson.M{"status": status, "paymentConfirmed": confirmed}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (s *MongoStore) SetReview(ctx context.Context, orderID string, review models.Review) error {
	return s.setOnce(ctx, orderID, "review", review)
}

func (s *MongoStore) SetComplaint(ctx context.Context, orderID string, complaint models.Complaint) error {
	return s.setOnce(ctx, orderID, "complaint", complaint)
}

// setOnce updates the field only while it is still unset, so a concurrent
// duplicate submission loses at the store rather than clobbering the first.
func (s *MongoStore) setOnce(ctx context.Context, orderID, field string, value any) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"orderId": orderID, field: bson.M{"$exists": false}},
		bson.M{"$set": bson.M{field: value}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if _, ferr := s.FindByID(ctx, orderID); ferr != nil {
			return ferr
		}
		return ErrDuplicateSubmission
	}
	return nil
}
