package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Aurora-Nasa-1/101216MISoundBoost/domain"
	"github.com/Aurora-Nasa-1/101216MISoundBoost/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// snapshotDocument 快照集合中的一条记录，_id 即快照键
type snapshotDocument struct {
	Key       string             `bson:"_id"`
	Value     []byte             `bson:"value"`
	UpdatedAt primitive.DateTime `bson:"updated_at"`
}

// MongoSnapshotStore MongoDB快照存储实现
type MongoSnapshotStore struct {
	db         mongo.Database
	collection string
	now        func() time.Time
}

func NewMongoSnapshotStore(db mongo.Database, collection string) *MongoSnapshotStore {
	if collection == "" {
		collection = domain.CollectionDaxSnapshotStore
	}
	return &MongoSnapshotStore{db: db, collection: collection, now: time.Now}
}

var _ domain.SnapshotStore = (*MongoSnapshotStore)(nil)

// Get 按键读取快照
func (r *MongoSnapshotStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, errors.New("key cannot be empty")
	}

	coll := r.db.Collection(r.collection)
	var doc snapshotDocument
	err := coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return doc.Value, true, nil
}

// Set 写入快照（支持 Upsert）
func (r *MongoSnapshotStore) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}

	coll := r.db.Collection(r.collection)
	filter := bson.M{"_id": key}
	update := bson.M{"$set": bson.M{
		"value":      value,
		"updated_at": primitive.NewDateTimeFromTime(r.now()),
	}}
	opts := options.Update().SetUpsert(true)

	if _, err := coll.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert snapshot: %w", err)
	}
	return nil
}

// Keys 列出所有快照键
func (r *MongoSnapshotStore) Keys(ctx context.Context) ([]string, error) {
	coll := r.db.Collection(r.collection)

	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.M{"_id": 1})
	cursor, err := coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find snapshots: %w", err)
	}
	defer cursor.Close(ctx)

	keys := []string{}
	for cursor.Next(ctx) {
		var doc snapshotDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode snapshot key: %w", err)
		}
		keys = append(keys, doc.Key)
	}
	return keys, nil
}
