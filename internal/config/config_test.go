package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsEmptyConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.Profiles)
	assert.True(t, cfg.UpdateConfig.Enabled)
	assert.True(t, cfg.UpdateConfig.AutoCheck)
}

func TestSaveAndLoadRoundtrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	cfg.AddProfile(Profile{
		Name:       "nrldc",
		ProjectDir: "/srv/nrldc/project",
		Venv:       "/srv/nrldc/venv",
		JavaHome:   "/opt/jdk-17",
		Command:    "nrldc_project",
		Env:        map[string]string{"DJANGO_SETTINGS_MODULE": "nrldc.settings"},
	})
	cfg.DefaultProfile = "nrldc"
	require.NoError(t, cfg.Save())

	loaded, err := Load()
	require.NoError(t, err)
	require.Len(t, loaded.Profiles, 1)

	p := loaded.GetProfile("nrldc")
	require.NotNil(t, p)
	assert.Equal(t, filepath.Clean("/srv/nrldc/project"), p.ProjectDir)
	assert.Equal(t, "nrldc_project", p.Command)
	assert.Equal(t, "nrldc.settings", p.Env["DJANGO_SETTINGS_MODULE"])
	assert.Equal(t, "nrldc", loaded.DefaultProfile)
}

func TestLoadStripsBOM(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	configDir := filepath.Join(dir, "dj")
	require.NoError(t, os.MkdirAll(configDir, 0755))

	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(`{"profiles":[{"name":"nrldc","project_dir":"/p","command":"nrldc_project"}]}`)...)
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "dj.json"), data, 0644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.HasProfile("nrldc"))
}

func TestLoadDropsDuplicateAndUnnamedProfiles(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	configDir := filepath.Join(dir, "dj")
	require.NoError(t, os.MkdirAll(configDir, 0755))

	raw := `{"profiles":[
		{"name":"nrldc","project_dir":"/a","command":"x"},
		{"name":"NRLDC","project_dir":"/b","command":"y"},
		{"name":"  ","project_dir":"/c","command":"z"}
	]}`
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "dj.json"), []byte(raw), 0644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Len(t, cfg.Profiles, 1)
}

func TestAddProfileReplacesByName(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	cfg.AddProfile(Profile{Name: "nrldc", ProjectDir: "/old", Command: "a"})
	cfg.AddProfile(Profile{Name: "NRLDC", ProjectDir: "/new", Command: "b"})

	require.Len(t, cfg.Profiles, 1)
	assert.Equal(t, filepath.Clean("/new"), cfg.Profiles[0].ProjectDir)
}

func TestRemoveProfileClearsDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	cfg.AddProfile(Profile{Name: "nrldc", ProjectDir: "/p", Command: "x"})
	cfg.AddProfile(Profile{Name: "other", ProjectDir: "/q", Command: "y"})
	require.NoError(t, cfg.SetDefault("nrldc"))

	cfg.RemoveProfile("nrldc")

	assert.False(t, cfg.HasProfile("nrldc"))
	assert.Empty(t, cfg.DefaultProfile)
}

func TestDefaultFallsBackToSoleProfile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Nil(t, cfg.Default())

	cfg.AddProfile(Profile{Name: "only", ProjectDir: "/p", Command: "x"})
	require.NotNil(t, cfg.Default())
	assert.Equal(t, "only", cfg.Default().Name)

	cfg.AddProfile(Profile{Name: "second", ProjectDir: "/q", Command: "y"})
	assert.Nil(t, cfg.Default())

	require.NoError(t, cfg.SetDefault("second"))
	require.NotNil(t, cfg.Default())
	assert.Equal(t, "second", cfg.Default().Name)
}

func TestSetDefaultUnknownProfile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Error(t, cfg.SetDefault("ghost"))
}

func TestManageScriptDefault(t *testing.T) {
	p := Profile{}
	assert.Equal(t, "manage.py", p.ManageScript())

	p.Manage = "manage_prod.py"
	assert.Equal(t, "manage_prod.py", p.ManageScript())
}

func TestSearchPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	cfg.AddSearchPath("/opt/jdks")
	cfg.AddSearchPath("/opt/jdks") // duplicate ignored
	assert.Len(t, cfg.SearchPaths, 1)
	assert.True(t, cfg.HasSearchPath("/opt/jdks"))

	cfg.RemoveSearchPath("/opt/jdks")
	assert.False(t, cfg.HasSearchPath("/opt/jdks"))
}
