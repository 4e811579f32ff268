package python

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dj/internal/env"
)

const activateScript = `
VIRTUAL_ENV="/opt/venvs/demo"
export VIRTUAL_ENV

_OLD_VIRTUAL_PATH="$PATH"
PATH="$VIRTUAL_ENV/bin:$PATH"
export PATH

if [ -n "${PYTHONHOME:-}" ] ; then
    unset PYTHONHOME
fi

EXTRA_FLAG=1
export EXTRA_FLAG
`

func writeScript(t *testing.T, body string) string {
	t.Helper()
	script := filepath.Join(t.TempDir(), "activate")
	require.NoError(t, os.WriteFile(script, []byte(body), 0644))
	return script
}

func TestSourceActivateAppliesExportedDiff(t *testing.T) {
	script := writeScript(t, activateScript)
	base := []string{"PATH=/usr/bin", "PYTHONHOME=/usr", "HOME=/home/u"}

	out, err := SourceActivate(context.Background(), script, base)
	require.NoError(t, err)

	virtualEnv, ok := env.Lookup(out, "VIRTUAL_ENV")
	assert.True(t, ok)
	assert.Equal(t, "/opt/venvs/demo", virtualEnv)

	path, _ := env.Lookup(out, "PATH")
	assert.Equal(t, "/opt/venvs/demo/bin:/usr/bin", path)

	_, ok = env.Lookup(out, "PYTHONHOME")
	assert.False(t, ok)

	flag, _ := env.Lookup(out, "EXTRA_FLAG")
	assert.Equal(t, "1", flag)

	// Untouched variables survive
	home, _ := env.Lookup(out, "HOME")
	assert.Equal(t, "/home/u", home)
}

func TestSourceActivateSkipsUnexportedVars(t *testing.T) {
	script := writeScript(t, "SHELL_LOCAL=hidden\nexport VISIBLE=yes\n")

	out, err := SourceActivate(context.Background(), script, []string{"PATH=/usr/bin"})
	require.NoError(t, err)

	_, ok := env.Lookup(out, "SHELL_LOCAL")
	assert.False(t, ok)

	visible, _ := env.Lookup(out, "VISIBLE")
	assert.Equal(t, "yes", visible)
}

func TestSourceActivateMissingScript(t *testing.T) {
	_, err := SourceActivate(context.Background(), filepath.Join(t.TempDir(), "nope"), []string{"PATH=/usr/bin"})
	assert.Error(t, err)
}

func TestActivationEnvFallsBackWithoutScript(t *testing.T) {
	root := fakeVenv(t, "home = /usr/bin\nversion = 3.11.4\n")

	v, err := Open(root)
	require.NoError(t, err)

	out, err := ActivationEnv(context.Background(), v, []string{"PATH=/usr/bin"})
	require.NoError(t, err)

	virtualEnv, ok := env.Lookup(out, "VIRTUAL_ENV")
	assert.True(t, ok)
	assert.Equal(t, root, virtualEnv)
}

func TestActivationEnvUsesRealScript(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("bin/activate sourcing is Unix-only")
	}

	root := fakeVenv(t, "home = /usr/bin\nversion = 3.11.4\n")
	v, err := Open(root)
	require.NoError(t, err)

	// Script with a custom hook on top of the standard activation
	body := activateScript + "\nDJANGO_SETTINGS_MODULE=nrldc.settings\nexport DJANGO_SETTINGS_MODULE\n"
	require.NoError(t, os.WriteFile(filepath.Join(v.BinDir(), "activate"), []byte(body), 0644))

	out, err := ActivationEnv(context.Background(), v, []string{"PATH=/usr/bin"})
	require.NoError(t, err)

	settings, _ := env.Lookup(out, "DJANGO_SETTINGS_MODULE")
	assert.Equal(t, "nrldc.settings", settings)
}
