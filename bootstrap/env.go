package bootstrap

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/Aurora-Nasa-1/101216MISoundBoost/domain"
	"github.com/Aurora-Nasa-1/101216MISoundBoost/util/logging"
	"github.com/spf13/viper"
)

type Env struct {
	AppEnv             string `mapstructure:"APP_ENV"`
	ServerAddress      string `mapstructure:"SERVER_ADDRESS"`
	ContextTimeout     int    `mapstructure:"CONTEXT_TIMEOUT"`
	DaxFilePath        string `mapstructure:"DAX_FILE_PATH"`
	DaxTempDir         string `mapstructure:"DAX_TEMP_DIR"`
	DaxBackupMirrorDir string `mapstructure:"DAX_BACKUP_MIRROR_DIR"`
	HostMode           string `mapstructure:"HOST_MODE"`
	SnapshotStore      string `mapstructure:"SNAPSHOT_STORE"`
	SnapshotDir        string `mapstructure:"SNAPSHOT_DIR"`
	DBHost             string `mapstructure:"DB_HOST"`
	DBPort             string `mapstructure:"DB_PORT"`
	DBUser             string `mapstructure:"DB_USER"`
	DBPass             string `mapstructure:"DB_PASS"`
	DBName             string `mapstructure:"DB_NAME"`
	AccessTokenSecret  string `mapstructure:"ACCESS_TOKEN_SECRET"`
	LogLevel           string `mapstructure:"LOG_LEVEL"`
}

var envDefaults = map[string]interface{}{
	"APP_ENV":               "development",
	"SERVER_ADDRESS":        ":8080",
	"CONTEXT_TIMEOUT":       10,
	"DAX_FILE_PATH":         "/data/adb/modules/101216MISoundBoost/system/vendor/etc/dolby/dax-default.xml",
	"DAX_TEMP_DIR":          "/tmp",
	"DAX_BACKUP_MIRROR_DIR": "/sdcard",
	"HOST_MODE":             domain.HostModeShell,
	"SNAPSHOT_STORE":        domain.SnapshotStoreFile,
	"SNAPSHOT_DIR":          "/data/adb/101216MISoundBoost/backups",
	"DB_HOST":               "localhost",
	"DB_PORT":               "27017",
	"DB_USER":               "",
	"DB_PASS":               "",
	"DB_NAME":               "dax_equalizer",
	"ACCESS_TOKEN_SECRET":   "",
	"LOG_LEVEL":             "info",
}

// LoadEnv reads configFile (a .env file, optional) and the process
// environment. Environment variables win over the file.
func LoadEnv(configFile string) (*Env, error) {
	v := viper.New()
	for key, value := range envDefaults {
		v.SetDefault(key, value)
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !isMissingFile(err) {
				return nil, fmt.Errorf("failed to read %s: %w", configFile, err)
			}
		}
	}

	env := Env{}
	if err := v.Unmarshal(&env); err != nil {
		return nil, fmt.Errorf("environment can't be loaded: %w", err)
	}
	if err := env.validate(); err != nil {
		return nil, err
	}
	return &env, nil
}

// An explicit config path that does not exist surfaces as a path error,
// not as viper.ConfigFileNotFoundError.
func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func (env *Env) validate() error {
	switch env.HostMode {
	case domain.HostModeLocal, domain.HostModeShell:
	default:
		return fmt.Errorf("HOST_MODE must be %q or %q, got %q", domain.HostModeLocal, domain.HostModeShell, env.HostMode)
	}
	switch env.SnapshotStore {
	case domain.SnapshotStoreMemory, domain.SnapshotStoreFile, domain.SnapshotStoreMongo:
	default:
		return fmt.Errorf("SNAPSHOT_STORE must be memory, file or mongo, got %q", env.SnapshotStore)
	}
	if env.DaxFilePath == "" {
		return errors.New("DAX_FILE_PATH cannot be empty")
	}
	if env.ContextTimeout <= 0 {
		return fmt.Errorf("CONTEXT_TIMEOUT must be positive, got %d", env.ContextTimeout)
	}
	return nil
}

func NewEnv() *Env {
	logger := logging.GetSubsystemLogger("bootstrap")
	env, err := LoadEnv(".env")
	if err != nil {
		logger.Fatal().Err(err).Msg("environment can't be loaded")
	}

	logging.SetLevel(env.LogLevel)
	if env.AppEnv == "development" {
		logger.Info().Msg("The App is running in development env")
	}
	return env
}
