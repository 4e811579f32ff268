package python

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dj/internal/env"
)

// fakeVenv creates a minimal venv layout: pyvenv.cfg plus an interpreter stub
func fakeVenv(t *testing.T, cfg string) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "venv")

	bin, python := "bin", "python"
	if runtime.GOOS == "windows" {
		bin, python = "Scripts", "python.exe"
	}

	require.NoError(t, os.MkdirAll(filepath.Join(root, bin), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "pyvenv.cfg"), []byte(cfg), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, bin, python), []byte("stub"), 0755))
	return root
}

func TestOpenParsesConfig(t *testing.T) {
	root := fakeVenv(t, "home = /usr/bin\nversion = 3.11.4\nprompt = 'nrldc'\n")

	v, err := Open(root)
	require.NoError(t, err)

	assert.Equal(t, root, v.Root)
	assert.Equal(t, "/usr/bin", v.Home)
	assert.Equal(t, "3.11.4", v.Version)
	assert.Equal(t, "nrldc", v.Prompt)
}

func TestOpenMissingDirectory(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestOpenRejectsPlainDirectory(t *testing.T) {
	_, err := Open(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pyvenv.cfg")
}

func TestInterpreterAndValidity(t *testing.T) {
	root := fakeVenv(t, "home = /usr/bin\nversion = 3.11.4\n")

	v, err := Open(root)
	require.NoError(t, err)

	assert.True(t, v.IsValid())
	assert.Equal(t, v.BinDir(), filepath.Dir(v.Interpreter()))

	require.NoError(t, os.Remove(v.Interpreter()))
	assert.False(t, v.IsValid())
}

func TestEnvironSynthesizesActivation(t *testing.T) {
	root := fakeVenv(t, "home = /usr/bin\nversion = 3.11.4\n")

	v, err := Open(root)
	require.NoError(t, err)

	sep := string(os.PathListSeparator)
	base := []string{"PATH=/usr/bin" + sep + "/bin", "PYTHONHOME=/usr", "HOME=/home/u"}

	out := v.Environ(base)

	virtualEnv, ok := env.Lookup(out, "VIRTUAL_ENV")
	assert.True(t, ok)
	assert.Equal(t, root, virtualEnv)

	path, _ := env.Lookup(out, "PATH")
	assert.Equal(t, v.BinDir()+sep+"/usr/bin"+sep+"/bin", path)

	_, ok = env.Lookup(out, "PYTHONHOME")
	assert.False(t, ok)

	prompt, _ := env.Lookup(out, "VIRTUAL_ENV_PROMPT")
	assert.Equal(t, "venv", prompt)
}

func TestEnvironUsesConfiguredPrompt(t *testing.T) {
	root := fakeVenv(t, "home = /usr/bin\nprompt = 'custom-prompt'\n")

	v, err := Open(root)
	require.NoError(t, err)

	out := v.Environ([]string{"PATH=/usr/bin"})
	prompt, _ := env.Lookup(out, "VIRTUAL_ENV_PROMPT")
	assert.Equal(t, "custom-prompt", prompt)
}

func TestParseConfigIgnoresMalformedLines(t *testing.T) {
	keys := parseConfig("home = /usr/bin\ngarbage line\n= empty key\nversion=3.12.0")

	assert.Equal(t, "/usr/bin", keys["home"])
	assert.Equal(t, "3.12.0", keys["version"])
	assert.Len(t, keys, 2)
}
