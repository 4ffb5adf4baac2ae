package session

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoSession struct {
	ID        string    `bson:"_id"`
	Data      string    `bson:"data"`
	ExpiresAt time.Time `bson:"expiresAt"`
}

// MongoBackend stores one document per session. MongoDB's TTL monitor
// removes expired documents; Get also ignores them until it does.
type MongoBackend struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewMongoBackend(db *mongo.Database) *MongoBackend {
	return &MongoBackend{coll: db.Collection("sessions"), now: time.Now}
}

// EnsureIndexes creates the TTL index on expiresAt.
func (m *MongoBackend) EnsureIndexes(ctx context.Context) error {
	_, err := m.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expiresAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	return err
}

func (m *MongoBackend) Get(ctx context.Context, id string) ([]byte, error) {
	var doc mongoSession
	filter := bson.M{"_id": id, "expiresAt": bson.M{"$gt": m.now()}}
	err := m.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(doc.Data), nil
}

func (m *MongoBackend) Set(ctx context.Context, id string, data []byte, ttl time.Duration) error {
	doc := mongoSession{ID: id, Data: string(data), ExpiresAt: m.now().Add(ttl)}
	_, err := m.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	return err
}

func (m *MongoBackend) Delete(ctx context.Context, id string) error {
	_, err := m.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
