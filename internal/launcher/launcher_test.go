package launcher

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dj/internal/config"
	"dj/internal/env"
	"dj/internal/java"
)

// fakeProject creates a project directory with a manage.py stub
func fakeProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "manage.py"), []byte("# stub"), 0644))
	return dir
}

// fakeJDK creates a directory that passes the JDK validity probe
func fakeJDK(t *testing.T) string {
	t.Helper()
	home := filepath.Join(t.TempDir(), "jdk-17")
	name := "java"
	if runtime.GOOS == "windows" {
		name = "java.exe"
	}
	require.NoError(t, os.MkdirAll(filepath.Join(home, "bin"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(home, "bin", name), []byte("stub"), 0644))
	return home
}

// fakeExecutor ignores the requested command and substitutes its own
type fakeExecutor struct {
	name string
	args []string
}

func (f fakeExecutor) CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, f.name, f.args...)
}

func TestCommandAssemblesLaunch(t *testing.T) {
	project := fakeProject(t)
	jdk := fakeJDK(t)

	l := New(config.Profile{
		Name:       "nrldc",
		ProjectDir: project,
		JavaHome:   jdk,
		Command:    "nrldc_project",
		Args:       []string{"--quiet"},
		Env:        map[string]string{"DJANGO_SETTINGS_MODULE": "nrldc.settings"},
	})
	l.SetBaseEnv([]string{"PATH=/usr/bin", "HOME=/home/u"})

	require.NoError(t, l.Resolve(java.NewDetector()))
	require.NoError(t, l.Validate())

	cmd, err := l.Command(context.Background(), "--date", "2025-01-01")
	require.NoError(t, err)

	assert.Equal(t, []string{"python", "manage.py", "nrldc_project", "--quiet", "--date", "2025-01-01"}, cmd.Args)
	assert.Equal(t, project, cmd.Dir)

	javaHome, ok := env.Lookup(cmd.Env, "JAVA_HOME")
	assert.True(t, ok)
	assert.Equal(t, jdk, javaHome)

	path, _ := env.Lookup(cmd.Env, "PATH")
	assert.True(t, strings.HasPrefix(path, filepath.Join(jdk, "bin")))

	settings, _ := env.Lookup(cmd.Env, "DJANGO_SETTINGS_MODULE")
	assert.Equal(t, "nrldc.settings", settings)
}

func TestResolveRejectsInvalidJavaHome(t *testing.T) {
	l := New(config.Profile{
		Name:       "broken",
		ProjectDir: fakeProject(t),
		JavaHome:   t.TempDir(), // no bin/java inside
		Command:    "x",
	})

	err := l.Resolve(java.NewDetector())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "java_home")
}

func TestValidateErrors(t *testing.T) {
	t.Run("missing command", func(t *testing.T) {
		l := New(config.Profile{Name: "p", ProjectDir: fakeProject(t)})
		assert.Error(t, l.Validate())
	})

	t.Run("missing project dir", func(t *testing.T) {
		l := New(config.Profile{Name: "p", ProjectDir: filepath.Join(t.TempDir(), "nope"), Command: "x"})
		assert.Error(t, l.Validate())
	})

	t.Run("missing manage script", func(t *testing.T) {
		l := New(config.Profile{Name: "p", ProjectDir: t.TempDir(), Command: "x"})
		err := l.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "manage.py")
	})

	t.Run("custom manage script", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "manage_prod.py"), []byte("# stub"), 0644))
		l := New(config.Profile{Name: "p", ProjectDir: dir, Manage: "manage_prod.py", Command: "x"})
		assert.NoError(t, l.Validate())
	})
}

func TestRunPropagatesExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}

	l := New(config.Profile{Name: "p", ProjectDir: t.TempDir(), Command: "x"})
	l.SetBaseEnv([]string{"PATH=/usr/bin:/bin"})
	l.SetIO(strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{})
	l.SetExecutor(fakeExecutor{name: "sh", args: []string{"-c", "exit 3"}})

	code, err := l.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, code)
}

func TestRunReportsSignalDeath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh and signals")
	}

	l := New(config.Profile{Name: "p", ProjectDir: t.TempDir(), Command: "x"})
	l.SetBaseEnv([]string{"PATH=/usr/bin:/bin"})
	l.SetIO(strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{})
	l.SetExecutor(fakeExecutor{name: "sh", args: []string{"-c", "kill -KILL $$"}})

	code, err := l.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 128+9, code) // SIGKILL
}

func TestRunSuccess(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}

	var stdout bytes.Buffer
	l := New(config.Profile{Name: "p", ProjectDir: t.TempDir(), Command: "x"})
	l.SetBaseEnv([]string{"PATH=/usr/bin:/bin"})
	l.SetIO(strings.NewReader(""), &stdout, &bytes.Buffer{})
	l.SetExecutor(fakeExecutor{name: "sh", args: []string{"-c", "echo done"}})

	code, err := l.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "done\n", stdout.String())
}

func TestInterpreterSelection(t *testing.T) {
	l := New(config.Profile{Name: "p", Command: "x"})
	assert.Equal(t, "python", l.Interpreter())

	l = New(config.Profile{Name: "p", Command: "x", Python: "/usr/local/bin/python3.11"})
	assert.Equal(t, "/usr/local/bin/python3.11", l.Interpreter())
}

func TestDryRun(t *testing.T) {
	project := fakeProject(t)

	l := New(config.Profile{Name: "p", ProjectDir: project, Command: "nrldc_project"})
	l.SetBaseEnv([]string{"PATH=/usr/bin"})

	var out bytes.Buffer
	require.NoError(t, l.DryRun(context.Background(), &out))

	text := out.String()
	assert.Contains(t, text, "python manage.py nrldc_project")
	assert.Contains(t, text, project)
}

func TestEnvChanges(t *testing.T) {
	base := []string{"HOME=/home/u", "PYTHONHOME=/usr", "PATH=/usr/bin"}
	resolved := []string{"HOME=/home/u", "PATH=/opt/jdk/bin:/usr/bin", "JAVA_HOME=/opt/jdk"}

	changes := envChanges(base, resolved)

	assert.Equal(t, []string{
		"+ JAVA_HOME=/opt/jdk",
		"- PYTHONHOME",
		"~ PATH=/opt/jdk/bin:/usr/bin",
	}, changes)
}
