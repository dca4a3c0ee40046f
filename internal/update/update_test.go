package update

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubLatest(t *testing.T, v string, err error) *int {
	t.Helper()
	calls := 0
	orig := latestRelease
	latestRelease = func(string) (string, error) { calls++; return v, err }
	t.Cleanup(func() { latestRelease = orig })
	return &calls
}

func TestCheck_NoNetworkOrCI(t *testing.T) {
	calls := stubLatest(t, "9.9.9", nil)
	t.Setenv("CI", "1")
	latest, newer, err := Check("1.0.0", false)
	require.NoError(t, err)
	assert.Empty(t, latest)
	assert.False(t, newer)

	t.Setenv("CI", "")
	_, newer, _ = Check("1.0.0", true)
	assert.False(t, newer)
	assert.Zero(t, *calls)
}

func TestNormalizeAndCompare(t *testing.T) {
	assert.Equal(t, "1.2.3", normalize(" v1.2.3 "))
	assert.Equal(t, 0, compare("1.2.3", "1.2.3"))
	assert.Positive(t, compare("1.3.0", "1.2.9"))
	assert.Negative(t, compare("1.2.0", "1.2.1"))
	assert.Positive(t, compare("1.10.0", "1.9.0"))
	assert.Negative(t, compare("1.0.0-rc.1", "1.0.0"))
	assert.Negative(t, compare("garbage", "0.0.1"))
}

func TestCheck_UsesCacheWhenFresh(t *testing.T) {
	calls := stubLatest(t, "", errors.New("offline"))
	t.Setenv("CI", "")
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	path := filepath.Join(dir, "keyward", cacheFileName)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	b, err := json.Marshal(cache{LastChecked: time.Now(), Latest: "1.2.3"})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0644))

	latest, newer, err := Check("1.2.2", false)
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", latest)
	assert.True(t, newer)
	assert.Zero(t, *calls)
}

func TestCheck_RefreshesStaleCache(t *testing.T) {
	calls := stubLatest(t, "v2.0.0", nil)
	t.Setenv("CI", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	latest, newer, err := Check("v1.0.0", false)
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", latest)
	assert.True(t, newer)
	assert.Equal(t, 1, *calls)

	c, err := loadCache()
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", c.Latest)
}

func TestCheck_LookupError(t *testing.T) {
	stubLatest(t, "", errors.New("rate limited"))
	t.Setenv("CI", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	_, newer, err := Check("1.0.0", false)
	require.Error(t, err)
	assert.False(t, newer)
}
