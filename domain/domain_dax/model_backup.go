package domain_dax

import (
	"strconv"
	"strings"
	"time"
)

type BackupType string

const (
	BackupTypeInitial BackupType = "initial"
	BackupTypeManual  BackupType = "manual"
)

const (
	// InitialBackupKey is the singleton key of the snapshot taken before the
	// first edit of an installation.
	InitialBackupKey = "dax_initial_backup"
	// ManualBackupPrefix prefixes manual snapshot keys: dax_backup_<epoch-ms>.
	ManualBackupPrefix  = "dax_backup_"
	BackupEnvelopeV1    = "1.0"
	BackupTimestampForm = "2006-01-02T15:04:05.000Z07:00"
)

// BackupEnvelope is the stored payload of a snapshot.
type BackupEnvelope struct {
	Timestamp string     `json:"timestamp"`
	Content   string     `json:"content"`
	Version   string     `json:"version"`
	Type      BackupType `json:"type,omitempty"`
}

// BackupSnapshot is a listed snapshot. Content is omitted from listings.
type BackupSnapshot struct {
	Key       string     `json:"key"`
	Name      string     `json:"name"`
	Timestamp string     `json:"timestamp"`
	Content   string     `json:"content,omitempty"`
	Type      BackupType `json:"type"`
}

// ManualBackupKey builds the key of a manual snapshot created at t.
func ManualBackupKey(t time.Time) string {
	return ManualBackupPrefix + strconv.FormatInt(t.UnixMilli(), 10)
}

func IsManualBackupKey(key string) bool {
	return strings.HasPrefix(key, ManualBackupPrefix)
}

// FormatBackupTimestamp renders t as an ISO-8601 UTC timestamp with
// millisecond precision, e.g. 2024-05-01T10:20:30.123Z.
func FormatBackupTimestamp(t time.Time) string {
	return t.UTC().Format(BackupTimestampForm)
}

// ParseBackupTimestamp accepts the stored timestamp format and plain RFC 3339.
func ParseBackupTimestamp(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// MirrorFileName is the file name of the on-device copy of a manual backup
// taken at timestamp: dax-backup-2024-05-01T10-20-30-123Z.xml.
func MirrorFileName(timestamp string) string {
	r := strings.NewReplacer(":", "-", ".", "-")
	return "dax-backup-" + r.Replace(timestamp) + ".xml"
}
