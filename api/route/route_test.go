package route

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Aurora-Nasa-1/101216MISoundBoost/bootstrap"
	"github.com/Aurora-Nasa-1/101216MISoundBoost/domain"
	"github.com/Aurora-Nasa-1/101216MISoundBoost/repository"
	"github.com/Aurora-Nasa-1/101216MISoundBoost/util/host_file"
	"github.com/Aurora-Nasa-1/101216MISoundBoost/util/tokenutil"
	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const livePath = "/vendor/etc/dolby/dax-default.xml"

type testServer struct {
	engine *gin.Engine
	fs     afero.Fs
	token  string
}

func newTestServer(t *testing.T, secret string) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fs := afero.NewMemMapFs()
	app := bootstrap.Application{
		Env: &bootstrap.Env{
			DaxFilePath:        livePath,
			DaxTempDir:         "/tmp",
			DaxBackupMirrorDir: "/sdcard",
			HostMode:           domain.HostModeLocal,
			SnapshotStore:      domain.SnapshotStoreMemory,
			ContextTimeout:     5,
			AccessTokenSecret:  secret,
		},
		Host:  host_file.NewAferoHost(fs),
		Store: repository.NewMemorySnapshotStore(),
	}
	engine := gin.New()
	Setup(app, 5*time.Second, engine)

	s := &testServer{engine: engine, fs: fs}
	if secret != "" {
		token, err := tokenutil.CreateAccessToken("webui", secret, time.Hour)
		require.NoError(t, err)
		s.token = token
	}
	return s
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	resp, ok := out["dax-response"].(map[string]interface{})
	require.True(t, ok, "missing envelope in %s", w.Body.String())
	return w.Code, resp
}

func errorCode(resp map[string]interface{}) string {
	e, _ := resp["error"].(map[string]interface{})
	code, _ := e["code"].(string)
	return code
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, "")
	code, resp := s.do(t, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "dax-equalizer", resp["type"])
}

func TestAuthRequiredWhenSecretSet(t *testing.T) {
	s := newTestServer(t, "s3cret")

	code, _ := s.do(t, http.MethodGet, "/api/dax/state", nil)
	assert.Equal(t, http.StatusOK, code)

	s.token = ""
	code, resp := s.do(t, http.MethodGet, "/api/dax/state", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "UNAUTHORIZED", errorCode(resp))

	s.token = "not-a-token"
	code, _ = s.do(t, http.MethodGet, "/api/dax/state", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	// Health stays public.
	code, _ = s.do(t, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestEditAndSaveFlow(t *testing.T) {
	s := newTestServer(t, "")

	code, resp := s.do(t, http.MethodPost, "/api/dax/initialize", nil)
	require.Equal(t, http.StatusOK, code)
	state := resp["state"].(map[string]interface{})
	assert.Equal(t, "READY", state["status"])

	code, _ = s.do(t, http.MethodPost, "/api/dax/preset", gin.H{"id": "music_ieq"})
	require.Equal(t, http.StatusOK, code)

	code, resp = s.do(t, http.MethodPost, "/api/dax/apply-preset", gin.H{"name": "bass"})
	require.Equal(t, http.StatusOK, code)
	state = resp["state"].(map[string]interface{})
	assert.Equal(t, true, state["isDirty"])

	code, resp = s.do(t, http.MethodPost, "/api/dax/save", nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 4, resp["count"])
	saved := resp["save"].(map[string]interface{})
	assert.Equal(t, false, saved["state"].(map[string]interface{})["isDirty"])

	data, err := afero.ReadFile(s.fs, livePath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<band_ieq frequency="47" target="600"/>`)

	code, resp = s.do(t, http.MethodGet, "/api/dax/presets", nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 2, resp["count"])
}

func TestBackupEndpoints(t *testing.T) {
	s := newTestServer(t, "")
	code, _ := s.do(t, http.MethodPost, "/api/dax/initialize", nil)
	require.Equal(t, http.StatusOK, code)

	code, resp := s.do(t, http.MethodPost, "/api/dax/backups", nil)
	require.Equal(t, http.StatusOK, code)
	key := resp["backup"].(map[string]interface{})["key"].(string)
	assert.NotEmpty(t, key)

	code, resp = s.do(t, http.MethodGet, "/api/dax/backups", nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, resp["count"])

	code, _ = s.do(t, http.MethodPost, "/api/dax/backups/restore", gin.H{"key": key})
	assert.Equal(t, http.StatusOK, code)

	code, resp = s.do(t, http.MethodPost, "/api/dax/backups/restore", gin.H{"key": "dax_backup_1"})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", errorCode(resp))

	code, resp = s.do(t, http.MethodPost, "/api/dax/backups/restore", gin.H{})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_REQUEST", errorCode(resp))
}

func TestErrorMapping(t *testing.T) {
	s := newTestServer(t, "")
	code, _ := s.do(t, http.MethodPost, "/api/dax/initialize", nil)
	require.Equal(t, http.StatusOK, code)

	tests := []struct {
		name   string
		path   string
		body   interface{}
		status int
		code   string
	}{
		{"BandOutOfRange", "/api/dax/band", gin.H{"index": 10, "value": 1}, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"BandMissingIndex", "/api/dax/band", gin.H{"value": 1}, http.StatusBadRequest, "INVALID_REQUEST"},
		{"UnknownMode", "/api/dax/mode", gin.H{"mode": "expert"}, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"UnknownBuiltin", "/api/dax/apply-preset", gin.H{"name": "metal"}, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"UnknownProfile", "/api/dax/profile", gin.H{"id": "game"}, http.StatusBadRequest, "INVALID_ARGUMENT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := s.do(t, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, code)
			assert.Equal(t, tt.code, errorCode(resp))
		})
	}
}

func TestLoadParseFailureReturnsNotice(t *testing.T) {
	s := newTestServer(t, "")
	require.NoError(t, afero.WriteFile(s.fs, livePath, []byte("<dax_config><oops"), 0o644))

	code, resp := s.do(t, http.MethodPost, "/api/dax/load", nil)
	require.Equal(t, http.StatusOK, code)
	state := resp["state"].(map[string]interface{})
	assert.Equal(t, "ERROR", state["status"])
	assert.NotEmpty(t, state["notice"])

	code, resp = s.do(t, http.MethodGet, "/api/dax/config", nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 2, resp["count"])
}

func TestSaveIoFailureIsBadGateway(t *testing.T) {
	s := newTestServer(t, "")
	code, _ := s.do(t, http.MethodPost, "/api/dax/initialize", nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = s.do(t, http.MethodPost, "/api/dax/reset", nil)
	require.Equal(t, http.StatusOK, code)

	// The live file vanished behind the service's back.
	require.NoError(t, s.fs.Remove(livePath))
	code, resp := s.do(t, http.MethodPost, "/api/dax/save", nil)
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Equal(t, "IO_FAILURE", errorCode(resp))
}

func TestStaticEndpoints(t *testing.T) {
	s := newTestServer(t, "")

	code, resp := s.do(t, http.MethodGet, "/api/dax/frequencies?mode=advanced", nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 20, resp["count"])
	labels := resp["frequencies"].(map[string]interface{})["labels"].([]interface{})
	assert.Equal(t, "47", labels[0])
	assert.Equal(t, "19.7k", labels[19])

	code, _ = s.do(t, http.MethodGet, "/api/dax/frequencies?mode=expert", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, resp = s.do(t, http.MethodGet, "/api/dax/presets/builtin", nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 8, resp["count"])

	code, resp = s.do(t, http.MethodGet, "/api/nothing", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", errorCode(resp))
}
