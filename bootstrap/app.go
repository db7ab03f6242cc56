package bootstrap

import (
	"fmt"

	"github.com/Aurora-Nasa-1/101216MISoundBoost/domain"
	"github.com/Aurora-Nasa-1/101216MISoundBoost/mongo"
	"github.com/Aurora-Nasa-1/101216MISoundBoost/repository"
	"github.com/Aurora-Nasa-1/101216MISoundBoost/util/host_file"
	"github.com/Aurora-Nasa-1/101216MISoundBoost/util/logging"
	"github.com/spf13/afero"
)

type Application struct {
	Env *Env
	// Mongo is nil unless SNAPSHOT_STORE=mongo.
	Mongo mongo.Client
	Host  domain.HostFileService
	Store domain.SnapshotStore
}

func App() Application {
	logger := logging.GetSubsystemLogger("bootstrap")
	app := &Application{}
	app.Env = NewEnv()

	if app.Env.SnapshotStore == domain.SnapshotStoreMongo {
		client, err := NewMongoDatabase(app.Env)
		if err != nil {
			logger.Fatal().Err(err).Msg("mongo unavailable")
		}
		app.Mongo = client
	}

	app.Host = NewHost(app.Env, afero.NewOsFs())
	store, err := NewSnapshotStore(app.Env, afero.NewOsFs(), app.Mongo)
	if err != nil {
		logger.Fatal().Err(err).Msg("snapshot store unavailable")
	}
	app.Store = store

	logger.Info().
		Str("dax_file", app.Env.DaxFilePath).
		Str("host_mode", app.Env.HostMode).
		Str("snapshot_store", app.Env.SnapshotStore).
		Msg("application configured")
	return *app
}

func (app *Application) CloseDBConnection() {
	CloseMongoDBConnection(app.Mongo)
}

// NewHost 根据 HOST_MODE 选择宿主文件服务
func NewHost(env *Env, fs afero.Fs) domain.HostFileService {
	if env.HostMode == domain.HostModeLocal {
		return host_file.NewAferoHost(fs)
	}
	return host_file.NewShellHost()
}

// NewSnapshotStore 根据 SNAPSHOT_STORE 选择备份快照存储
func NewSnapshotStore(env *Env, fs afero.Fs, client mongo.Client) (domain.SnapshotStore, error) {
	switch env.SnapshotStore {
	case domain.SnapshotStoreMemory:
		return repository.NewMemorySnapshotStore(), nil
	case domain.SnapshotStoreFile:
		return repository.NewFileSnapshotStore(fs, env.SnapshotDir)
	case domain.SnapshotStoreMongo:
		if client == nil {
			return nil, fmt.Errorf("snapshot store %q requires a mongo client", env.SnapshotStore)
		}
		return repository.NewMongoSnapshotStore(client.Database(env.DBName), domain.CollectionDaxSnapshotStore), nil
	}
	return nil, fmt.Errorf("unknown snapshot store %q", env.SnapshotStore)
}
