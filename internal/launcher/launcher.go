package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"

	"dj/internal/config"
	"dj/internal/env"
	"dj/internal/java"
	"dj/internal/python"
)

// Executor creates exec.Cmd instances. The indirection lets tests swap in
// their own command factory without touching the launch logic.
type Executor interface {
	CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd
}

// execExecutor is the production Executor backed by os/exec
type execExecutor struct{}

func (execExecutor) CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, name, args...)
}

// Launcher bootstraps the environment for one profile and runs its
// management command: JDK env first, then venv activation, then the
// working-directory change, then the synchronous process launch.
type Launcher struct {
	profile  config.Profile
	javaHome string
	venv     *python.Venv

	executor Executor
	baseEnv  []string
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
}

// New creates a Launcher for the given profile
func New(p config.Profile) *Launcher {
	return &Launcher{
		profile:  p,
		executor: execExecutor{},
		baseEnv:  os.Environ(),
		stdin:    os.Stdin,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
}

// SetExecutor replaces the command factory (used by tests)
func (l *Launcher) SetExecutor(e Executor) {
	l.executor = e
}

// SetBaseEnv replaces the parent environment the child env is derived from
func (l *Launcher) SetBaseEnv(environ []string) {
	l.baseEnv = environ
}

// SetIO redirects the child's standard streams
func (l *Launcher) SetIO(stdin io.Reader, stdout, stderr io.Writer) {
	l.stdin = stdin
	l.stdout = stdout
	l.stderr = stderr
}

// JavaHome returns the resolved JDK home, empty when the profile has none
func (l *Launcher) JavaHome() string {
	return l.javaHome
}

// Venv returns the opened virtual environment, nil when the profile has none
func (l *Launcher) Venv() *python.Venv {
	return l.venv
}

// Resolve maps the profile's JDK and venv references to concrete locations.
// Must be called before Environ, Command or Run.
func (l *Launcher) Resolve(detector *java.Detector) error {
	p := &l.profile

	switch {
	case p.JavaHome != "":
		if !detector.IsValidJavaPath(p.JavaHome) {
			return fmt.Errorf("java_home is not a valid JDK: %s", p.JavaHome)
		}
		l.javaHome = filepath.Clean(p.JavaHome)
	case p.JavaVersion != "":
		home, err := detector.Resolve(p.JavaVersion)
		if err != nil {
			return fmt.Errorf("failed to resolve JDK for profile '%s': %w", p.Name, err)
		}
		l.javaHome = home
	}
	if l.javaHome != "" {
		log.Debug("resolved JDK", "profile", p.Name, "java_home", l.javaHome)
	}

	if p.Venv != "" {
		venv, err := python.Open(p.Venv)
		if err != nil {
			return err
		}
		l.venv = venv
		log.Debug("opened virtual environment", "root", venv.Root, "python", venv.Version)
	}

	return nil
}

// Validate checks that everything the launch needs exists on disk
func (l *Launcher) Validate() error {
	p := &l.profile

	if strings.TrimSpace(p.Command) == "" {
		return fmt.Errorf("profile '%s' has no management command configured", p.Name)
	}

	info, err := os.Stat(p.ProjectDir)
	if err != nil {
		return fmt.Errorf("project directory not found: %s", p.ProjectDir)
	}
	if !info.IsDir() {
		return fmt.Errorf("project path is not a directory: %s", p.ProjectDir)
	}

	manage := filepath.Join(p.ProjectDir, p.ManageScript())
	if _, err := os.Stat(manage); err != nil {
		return fmt.Errorf("management script not found: %s", manage)
	}

	if l.venv != nil && !l.venv.IsValid() {
		return fmt.Errorf("virtual environment has no python interpreter: %s", l.venv.Root)
	}

	return nil
}

// Environ assembles the child environment: JAVA_HOME plus its bin on PATH,
// then the venv activation, then the profile's extra variables.
func (l *Launcher) Environ(ctx context.Context) ([]string, error) {
	out := append([]string(nil), l.baseEnv...)

	if l.javaHome != "" {
		out = env.Set(out, "JAVA_HOME", l.javaHome)
		out = env.PrependPath(out, filepath.Join(l.javaHome, "bin"))
		log.Debug("configured JAVA_HOME", "path", l.javaHome)
	}

	if l.venv != nil {
		activated, err := python.ActivationEnv(ctx, l.venv, out)
		if err != nil {
			return nil, err
		}
		out = activated
		log.Debug("activated virtual environment", "root", l.venv.Root)
	}

	for key, value := range l.profile.Env {
		out = env.Set(out, key, value)
	}

	return out, nil
}

// Interpreter returns the python executable the launch will use
func (l *Launcher) Interpreter() string {
	if l.profile.Python != "" {
		return l.profile.Python
	}
	if l.venv != nil {
		return l.venv.Interpreter()
	}
	// Resolved against the assembled PATH at exec time
	return "python"
}

// Command builds the exec.Cmd for 'python manage.py <command> [args...]'.
// Extra args are appended after the profile's fixed arguments.
func (l *Launcher) Command(ctx context.Context, extraArgs ...string) (*exec.Cmd, error) {
	environ, err := l.Environ(ctx)
	if err != nil {
		return nil, err
	}

	args := []string{l.profile.ManageScript(), l.profile.Command}
	args = append(args, l.profile.Args...)
	args = append(args, extraArgs...)

	cmd := l.executor.CommandContext(ctx, l.Interpreter(), args...)
	cmd.Dir = l.profile.ProjectDir
	cmd.Env = environ
	cmd.Stdin = l.stdin
	cmd.Stdout = l.stdout
	cmd.Stderr = l.stderr

	return cmd, nil
}

// Run launches the management command and waits for it, forwarding
// SIGINT/SIGTERM to the child. Returns the child's exit code.
func (l *Launcher) Run(ctx context.Context, extraArgs ...string) (int, error) {
	cmd, err := l.Command(ctx, extraArgs...)
	if err != nil {
		return 1, err
	}

	log.Debug("launching", "python", cmd.Path, "args", strings.Join(cmd.Args[1:], " "), "dir", cmd.Dir)

	if err := cmd.Start(); err != nil {
		return 1, fmt.Errorf("failed to start %s: %w", l.Interpreter(), err)
	}

	// Forward interrupts so Ctrl-C reaches the management command and dj
	// stays alive to report its exit code
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case sig := <-sigCh:
				_ = cmd.Process.Signal(sig)
			case <-done:
				return
			}
		}
	}()

	err = cmd.Wait()
	close(done)
	signal.Stop(sigCh)

	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitStatus(exitErr.ProcessState), nil
	}

	return 1, err
}

// DryRun writes what Run would do without launching anything
func (l *Launcher) DryRun(ctx context.Context, w io.Writer, extraArgs ...string) error {
	cmd, err := l.Command(ctx, extraArgs...)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "command:  %s\n", strings.Join(cmd.Args, " "))
	fmt.Fprintf(w, "dir:      %s\n", cmd.Dir)

	changes := envChanges(l.baseEnv, cmd.Env)
	if len(changes) > 0 {
		fmt.Fprintln(w, "env:")
		for _, c := range changes {
			fmt.Fprintf(w, "  %s\n", c)
		}
	}

	return nil
}

// envChanges renders the entries of resolved that differ from base
func envChanges(base, resolved []string) []string {
	baseVals := make(map[string]string, len(base))
	for _, kv := range base {
		if i := strings.IndexByte(kv, '='); i > 0 {
			baseVals[kv[:i]] = kv[i+1:]
		}
	}

	seen := make(map[string]bool, len(resolved))
	var changes []string
	for _, kv := range resolved {
		i := strings.IndexByte(kv, '=')
		if i <= 0 {
			continue
		}
		key, value := kv[:i], kv[i+1:]
		seen[key] = true
		if old, ok := baseVals[key]; !ok {
			changes = append(changes, fmt.Sprintf("+ %s=%s", key, value))
		} else if old != value {
			changes = append(changes, fmt.Sprintf("~ %s=%s", key, value))
		}
	}
	for key := range baseVals {
		if !seen[key] {
			changes = append(changes, fmt.Sprintf("- %s", key))
		}
	}

	sort.Strings(changes)
	return changes
}
