package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/Aurora-Nasa-1/101216MISoundBoost/mongo"
	"github.com/Aurora-Nasa-1/101216MISoundBoost/util/logging"
)

func mongoURI(env *Env) string {
	if env.DBUser == "" || env.DBPass == "" {
		return fmt.Sprintf("mongodb://%s:%s", env.DBHost, env.DBPort)
	}
	return fmt.Sprintf("mongodb://%s:%s@%s:%s", env.DBUser, env.DBPass, env.DBHost, env.DBPort)
}

func NewMongoDatabase(env *Env) (mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.NewClient(mongoURI(env))
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}
	if err := client.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	mongo.CreateIndexes(client.Database(env.DBName))
	return client, nil
}

func CloseMongoDBConnection(client mongo.Client) {
	if client == nil {
		return
	}
	logger := logging.GetSubsystemLogger("bootstrap")
	if err := client.Disconnect(context.TODO()); err != nil {
		logger.Error().Err(err).Msg("failed to close mongo connection")
		return
	}
	logger.Info().Msg("Connection to MongoDB closed.")
}
