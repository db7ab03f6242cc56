package domain

const (
	CollectionDaxSnapshotStore = "dax_equalizer_snapshot_store"
)

const (
	SnapshotStoreMemory = "memory"
	SnapshotStoreFile   = "file"
	SnapshotStoreMongo  = "mongo"
)

const (
	HostModeLocal = "local"
	HostModeShell = "shell"
)
