package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Aurora-Nasa-1/101216MISoundBoost/domain"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvDefaults(t *testing.T) {
	env, err := LoadEnv(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", env.ServerAddress)
	assert.Equal(t, 10, env.ContextTimeout)
	assert.Equal(t, "/tmp", env.DaxTempDir)
	assert.Equal(t, "/sdcard", env.DaxBackupMirrorDir)
	assert.Equal(t, domain.HostModeShell, env.HostMode)
	assert.Equal(t, domain.SnapshotStoreFile, env.SnapshotStore)
	assert.Contains(t, env.DaxFilePath, "/system/vendor/etc/dolby/dax-default.xml")
}

func TestLoadEnvFileAndOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "SERVER_ADDRESS=:9090\nDAX_FILE_PATH=/data/dax.xml\nSNAPSHOT_STORE=memory\nCONTEXT_TIMEOUT=3\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("SERVER_ADDRESS", ":7070")
	t.Setenv("HOST_MODE", "local")

	env, err := LoadEnv(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", env.ServerAddress)
	assert.Equal(t, "/data/dax.xml", env.DaxFilePath)
	assert.Equal(t, domain.SnapshotStoreMemory, env.SnapshotStore)
	assert.Equal(t, domain.HostModeLocal, env.HostMode)
	assert.Equal(t, 3, env.ContextTimeout)
}

func TestLoadEnvValidation(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"HOST_MODE", "adb"},
		{"SNAPSHOT_STORE", "redis"},
		{"CONTEXT_TIMEOUT", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := LoadEnv("")
			assert.Error(t, err)
		})
	}
}

func TestNewSnapshotStore(t *testing.T) {
	fs := afero.NewMemMapFs()

	store, err := NewSnapshotStore(&Env{SnapshotStore: domain.SnapshotStoreMemory}, fs, nil)
	require.NoError(t, err)
	assert.NotNil(t, store)

	store, err = NewSnapshotStore(&Env{SnapshotStore: domain.SnapshotStoreFile, SnapshotDir: "/backups"}, fs, nil)
	require.NoError(t, err)
	assert.NotNil(t, store)
	ok, _ := afero.DirExists(fs, "/backups")
	assert.True(t, ok)

	_, err = NewSnapshotStore(&Env{SnapshotStore: domain.SnapshotStoreMongo}, fs, nil)
	assert.Error(t, err)
}

func TestMongoURI(t *testing.T) {
	assert.Equal(t, "mongodb://db:27017", mongoURI(&Env{DBHost: "db", DBPort: "27017"}))
	assert.Equal(t, "mongodb://u:p@db:27017", mongoURI(&Env{DBHost: "db", DBPort: "27017", DBUser: "u", DBPass: "p"}))
}
