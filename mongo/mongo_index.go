package mongo

import (
	"context"
	"time"

	"github.com/Aurora-Nasa-1/101216MISoundBoost/domain"
	"github.com/Aurora-Nasa-1/101216MISoundBoost/util/logging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func CreateIndexes(db Database) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 快照集合: 按更新时间列出备份
	snapshotCollection := db.Collection(domain.CollectionDaxSnapshotStore)
	createIndex(ctx, snapshotCollection, bson.D{{Key: "updated_at", Value: -1}}, "updated_at")
}

func createIndex(
	ctx context.Context,
	collection Collection,
	keys bson.D,
	name string,
) {
	logger := logging.GetSubsystemLogger("mongo")

	specs, err := collection.Indexes().ListSpecifications(ctx)
	if err == nil {
		for _, spec := range specs {
			if spec.Name == name {
				logger.Debug().Str("index", name).Msg("index already exists")
				return
			}
		}
	}

	indexModel := mongo.IndexModel{
		Keys:    keys,
		Options: options.Index().SetName(name),
	}
	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		logger.Warn().Err(err).Str("index", name).Msg("failed to create index")
	} else {
		logger.Info().Str("index", name).Msg("index created")
	}
}
