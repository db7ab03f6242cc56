package host_file

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/Aurora-Nasa-1/101216MISoundBoost/domain"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ domain.HostFileService = (*AferoHost)(nil)
	_ domain.HostFileService = (*ShellHost)(nil)
)

func exerciseHost(t *testing.T, host domain.HostFileService, root string) {
	ctx := context.Background()
	dir := filepath.Join(root, "vendor", "etc", "dolby")
	live := filepath.Join(dir, "dax-default.xml")
	temp := filepath.Join(root, "dax-temp.xml")
	content := "<dax_config a='1'>\n  \"quoted\" $HOME `x`\n</dax_config>\n"

	ok, err := host.Exists(ctx, live)
	require.NoError(t, err)
	assert.False(t, ok)

	res, err := host.MakeDirs(ctx, dir)
	require.NoError(t, err)
	assert.True(t, res.OK())

	res, err = host.WriteText(ctx, temp, content)
	require.NoError(t, err)
	assert.True(t, res.OK())

	_, err = host.Copy(ctx, temp, live)
	require.NoError(t, err)
	_, err = host.Chmod(ctx, live, 0o644)
	require.NoError(t, err)
	_, err = host.Remove(ctx, temp)
	require.NoError(t, err)

	ok, err = host.Exists(ctx, live)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = host.Exists(ctx, temp)
	require.NoError(t, err)
	assert.False(t, ok)

	text, res, err := host.ReadText(ctx, live)
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, content, text)

	_, res, err = host.ReadText(ctx, filepath.Join(root, "missing.xml"))
	assert.Error(t, err)
	assert.False(t, res.OK())
	assert.NotEmpty(t, res.Stderr)

	res, err = host.Remove(ctx, filepath.Join(root, "missing.xml"))
	assert.Error(t, err)
	assert.NotZero(t, res.Errno)
}

func TestAferoHost(t *testing.T) {
	exerciseHost(t, NewAferoHost(afero.NewMemMapFs()), "/data")
}

func TestAferoHostCancelled(t *testing.T) {
	host := NewAferoHost(afero.NewMemMapFs())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := host.WriteText(ctx, "/x", "y")
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, res.OK())
}

func TestAferoHostChmod(t *testing.T) {
	fs := afero.NewMemMapFs()
	host := NewAferoHost(fs)
	ctx := context.Background()

	_, err := host.WriteText(ctx, "/f.xml", "x")
	require.NoError(t, err)
	_, err = host.Chmod(ctx, "/f.xml", 0o600)
	require.NoError(t, err)

	info, err := fs.Stat("/f.xml")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestShellHost(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("no sh available")
	}
	root := t.TempDir()
	exerciseHost(t, NewShellHost(), root)

	info, err := os.Stat(filepath.Join(root, "vendor", "etc", "dolby", "dax-default.xml"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestFailure(t *testing.T) {
	assert.NoError(t, Failure("copy", "/a", domain.ExecResult{}))
	err := Failure("copy", "/a", domain.ExecResult{Errno: 1, Stderr: "denied"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "denied")
}
