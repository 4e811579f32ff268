package python

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"dj/internal/env"
)

// SourceActivate sources an activation script in an in-process POSIX shell
// and returns base with the script's exported variable changes applied.
// This honors custom hooks people add to bin/activate, which a synthesized
// environment would miss.
func SourceActivate(ctx context.Context, script string, base []string) ([]string, error) {
	quoted, err := syntax.Quote(script, syntax.LangBash)
	if err != nil {
		return nil, fmt.Errorf("invalid activation script path: %w", err)
	}

	file, err := syntax.NewParser().Parse(strings.NewReader(". "+quoted), "activate")
	if err != nil {
		return nil, fmt.Errorf("failed to parse activation command: %w", err)
	}

	runner, err := interp.New(
		interp.Env(expand.ListEnviron(base...)),
		interp.StdIO(strings.NewReader(""), io.Discard, io.Discard),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create shell interpreter: %w", err)
	}

	if err := runner.Run(ctx, file); err != nil {
		return nil, fmt.Errorf("failed to source %s: %w", script, err)
	}

	// Apply the exported diff. Shell-local helpers like _OLD_VIRTUAL_PATH
	// stay out of the child environment, same as with a real 'source'.
	out := base
	for name, vr := range runner.Vars {
		if vr.Kind == expand.Unset {
			out = env.Unset(out, name)
			continue
		}
		if !vr.Exported || vr.Local {
			continue
		}
		out = env.Set(out, name, vr.String())
	}

	return out, nil
}

// ActivationEnv computes the activated environment for v. On Unix the real
// bin/activate is sourced when present; otherwise (and always on Windows,
// where only activate.bat exists) the documented variables are synthesized.
func ActivationEnv(ctx context.Context, v *Venv, base []string) ([]string, error) {
	if runtime.GOOS == "windows" {
		return v.Environ(base), nil
	}

	script := v.ActivateScript()
	if script == "" {
		return v.Environ(base), nil
	}

	out, err := SourceActivate(ctx, script, base)
	if err != nil {
		return nil, err
	}

	// Guard against a script that never set the essentials
	if _, ok := env.Lookup(out, "VIRTUAL_ENV"); !ok {
		out = v.Environ(out)
	}

	return out, nil
}
