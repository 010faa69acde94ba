package browser

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fundix_e2e/domain/entities"
	"fundix_e2e/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_StaticEngine(t *testing.T) {
	cfg := config.Default()
	cfg.Engine = config.EngineStatic
	cfg.ViewportWidth = 375
	cfg.ViewportHeight = 667

	b, err := New(cfg, quietLogger())
	require.NoError(t, err)
	defer b.Close()

	s, ok := b.(*StaticController)
	require.True(t, ok)
	assert.Equal(t, 375, s.viewport.Width)
	assert.Equal(t, 667, s.viewport.Height)
}

func TestNew_UnknownEngine(t *testing.T) {
	cfg := config.Default()
	cfg.Engine = "lynx"

	_, err := New(cfg, quietLogger())
	assert.Error(t, err)
}

func TestScrollY(t *testing.T) {
	assert.Equal(t, 0.0, scrollY(entities.ScrollToTop(), 900))
	assert.Equal(t, 900.0, scrollY(entities.ScrollToBottom(), 900))
	assert.Equal(t, 250.0, scrollY(entities.ScrollToY(250), 900))
}

func TestToAttribute(t *testing.T) {
	v, ok := toAttribute(nil)
	assert.False(t, ok)
	assert.Empty(t, v)

	v, ok = toAttribute("")
	assert.True(t, ok)
	assert.Empty(t, v)

	v, ok = toAttribute("_blank")
	assert.True(t, ok)
	assert.Equal(t, "_blank", v)
}

func TestIgnoreClosed(t *testing.T) {
	assert.NoError(t, ignoreClosed(nil))
	assert.NoError(t, ignoreClosed(errors.New("target closed")))
	assert.NoError(t, ignoreClosed(errors.New("browser has been closed")))
	assert.Error(t, ignoreClosed(errors.New("connection reset")))
}

func TestProfileDirs(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())

	dir, err := newProfileDir()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(dir), ProfilePrefix))
	assert.DirExists(t, dir)

	stale, err := StaleProfiles()
	require.NoError(t, err)
	assert.Equal(t, []string{dir}, stale)

	require.NoError(t, os.RemoveAll(dir))
	stale, err = StaleProfiles()
	require.NoError(t, err)
	assert.Empty(t, stale)
}
