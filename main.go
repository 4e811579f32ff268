package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"dj/internal/config"
	"dj/internal/env"
	"dj/internal/java"
	"dj/internal/launcher"
	"dj/internal/python"
	"dj/internal/theme"
	"dj/internal/updater"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Version is set during build time via ldflags
var Version = "dev"

// Use DJ custom theme
var (
	successStyle = theme.SuccessStyle
	errorStyle   = theme.ErrorStyle
	warningStyle = theme.WarningStyle
	infoStyle    = theme.InfoStyle
	titleStyle   = theme.Title
	boxStyle     = theme.Box
	currentStyle = theme.CurrentStyle
)

func main() {
	args := make([]string, 0, len(os.Args)-1)
	verbose := false
	for _, a := range os.Args[1:] {
		if a == "-v" || a == "--verbose" {
			verbose = true
			continue
		}
		args = append(args, a)
	}

	log.SetReportTimestamp(false)
	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	rest := args[1:]

	switch command {
	case "run":
		handleRun(rest)
	case "list":
		handleList()
	case "show":
		handleShow(rest)
	case "env":
		handleEnv(rest)
	case "init":
		handleInit()
	case "remove":
		handleRemove(rest)
	case "use":
		handleUse(rest)
	case "jdks":
		handleJDKs()
	case "paths":
		handlePaths(rest)
	case "doctor":
		handleDoctor(rest)
	case "update":
		handleUpdate()
	case "version", "--version":
		printVersion()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	// Update check (non-fatal, rate-limited, silent unless newer release exists)
	checkForUpdateBackground()
}

func handleRun(args []string) {
	var profileName string
	var dryRun bool
	var timeout time.Duration
	var extraArgs []string

	i := 0
	for i < len(args) {
		a := args[i]
		switch {
		case a == "--":
			extraArgs = args[i+1:]
			i = len(args)
		case a == "--dry-run":
			dryRun = true
			i++
		case a == "--timeout":
			if i+1 >= len(args) {
				fmt.Println(errorStyle.Render("--timeout requires a duration (e.g. --timeout 30m)"))
				os.Exit(1)
			}
			d, err := time.ParseDuration(args[i+1])
			if err != nil {
				fmt.Println(errorStyle.Render("Invalid timeout: " + err.Error()))
				os.Exit(1)
			}
			timeout = d
			i += 2
		case strings.HasPrefix(a, "--timeout="):
			d, err := time.ParseDuration(strings.TrimPrefix(a, "--timeout="))
			if err != nil {
				fmt.Println(errorStyle.Render("Invalid timeout: " + err.Error()))
				os.Exit(1)
			}
			timeout = d
			i++
		case strings.HasPrefix(a, "-"):
			fmt.Println(errorStyle.Render("Unknown flag: " + a))
			fmt.Println(infoStyle.Render("Usage: dj run [profile] [--dry-run] [--timeout <dur>] [-- args...]"))
			os.Exit(1)
		default:
			if profileName != "" {
				fmt.Println(errorStyle.Render("Only one profile may be given. Use '--' before extra arguments."))
				os.Exit(1)
			}
			profileName = a
			i++
		}
	}

	profile := mustResolveProfile(profileName)

	l := launcher.New(*profile)
	if err := l.Resolve(java.NewDetector()); err != nil {
		fmt.Println(errorStyle.Render("Error: " + err.Error()))
		os.Exit(1)
	}
	if err := l.Validate(); err != nil {
		fmt.Println(errorStyle.Render("Error: " + err.Error()))
		fmt.Println(theme.Faint.Render("Run 'dj doctor " + profile.Name + "' for a full diagnosis"))
		os.Exit(1)
	}

	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if dryRun {
		fmt.Println(titleStyle.Render("Dry Run: " + profile.Name))
		fmt.Println()
		if err := l.DryRun(ctx, os.Stdout, extraArgs...); err != nil {
			fmt.Println(errorStyle.Render("Error: " + err.Error()))
			os.Exit(1)
		}
		return
	}

	fmt.Println(infoStyle.Render(fmt.Sprintf("Running %s %s (profile '%s')...", profile.ManageScript(), profile.Command, profile.Name)))
	fmt.Println()

	code, err := l.Run(ctx, extraArgs...)
	if err != nil {
		fmt.Println(errorStyle.Render("Error: " + err.Error()))
		os.Exit(1)
	}
	// Hand the management command's exit code straight back to the caller
	os.Exit(code)
}

func handleList() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println(errorStyle.Render("Error loading config: " + err.Error()))
		os.Exit(1)
	}

	if len(cfg.Profiles) == 0 {
		fmt.Println(warningStyle.Render("No launch profiles configured."))
		fmt.Println(infoStyle.Render("Run 'dj init' to create one."))
		return
	}

	def := cfg.Default()

	fmt.Println(titleStyle.Render("Launch Profiles:"))
	fmt.Println()

	for _, p := range cfg.Profiles {
		marker := "  "
		nameStr := p.Name
		if def != nil && strings.EqualFold(p.Name, def.Name) {
			marker = "→ "
			nameStr = currentStyle.Render(p.Name)
		}

		status := theme.SuccessStyle.Render("ok")
		if _, err := os.Stat(p.ProjectDir); err != nil {
			status = theme.ErrorStyle.Render("missing project dir")
		} else if p.Venv != "" {
			if _, err := python.Open(p.Venv); err != nil {
				status = theme.WarningStyle.Render("venv problem")
			}
		}

		// Align name column to width 15 considering visual width
		visW := lipgloss.Width(nameStr)
		pad := 0
		if visW < 15 {
			pad = 15 - visW
		}
		fmt.Printf("%s%s%s %s %s %s\n",
			marker, nameStr, strings.Repeat(" ", pad),
			theme.CommandStyle.Render(p.ManageScript()+" "+p.Command),
			theme.PathStyle.Render(p.ProjectDir),
			theme.Faint.Render("(")+status+theme.Faint.Render(")"))
	}

	fmt.Println()

	if def == nil {
		fmt.Println(theme.WarningMessage(" No default profile set"))
		fmt.Println(theme.Faint.Render("  Run 'dj use <profile>' so 'dj run' works without arguments"))
	}
}

func handleShow(args []string) {
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	profile := mustResolveProfile(name)

	fmt.Println(titleStyle.Render("Profile: " + profile.Name))
	fmt.Println()

	fmt.Printf("%s %s\n", theme.LabelStyle.Render("Project:"), theme.PathStyle.Render(profile.ProjectDir))
	fmt.Printf("%s %s %s\n", theme.LabelStyle.Render("Command:"), theme.CommandStyle.Render(profile.ManageScript()+" "+profile.Command), theme.Faint.Render(strings.Join(profile.Args, " ")))

	if profile.Venv != "" {
		venvInfo := theme.PathStyle.Render(profile.Venv)
		if v, err := python.Open(profile.Venv); err != nil {
			venvInfo += " " + theme.ErrorStyle.Render("(invalid: "+err.Error()+")")
		} else if v.Version != "" {
			venvInfo += " " + theme.Faint.Render("(python "+v.Version+")")
		}
		fmt.Printf("%s %s\n", theme.LabelStyle.Render("Venv:"), venvInfo)
	}

	if profile.JavaHome != "" || profile.JavaVersion != "" {
		detector := java.NewDetector()
		spec := profile.JavaHome
		if spec == "" {
			spec = profile.JavaVersion
		}
		jdkInfo := ""
		if home, err := detector.Resolve(spec); err != nil {
			jdkInfo = theme.ErrorStyle.Render("unresolved: " + err.Error())
		} else {
			jdkInfo = theme.PathStyle.Render(home) + " " + theme.Faint.Render("(java "+detector.GetVersion(home)+")")
		}
		fmt.Printf("%s %s\n", theme.LabelStyle.Render("JDK:"), jdkInfo)
	}

	if profile.Python != "" {
		fmt.Printf("%s %s\n", theme.LabelStyle.Render("Python:"), theme.PathStyle.Render(profile.Python))
	}

	if len(profile.Env) > 0 {
		fmt.Printf("%s\n", theme.LabelStyle.Render("Extra env:"))
		keys := make([]string, 0, len(profile.Env))
		for k := range profile.Env {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("  %s=%s\n", theme.Code.Render(k), profile.Env[k])
		}
	}
}

func handleEnv(args []string) {
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	profile := mustResolveProfile(name)

	l := launcher.New(*profile)
	if err := l.Resolve(java.NewDetector()); err != nil {
		fmt.Println(errorStyle.Render("Error: " + err.Error()))
		os.Exit(1)
	}

	environ, err := l.Environ(context.Background())
	if err != nil {
		fmt.Println(errorStyle.Render("Error: " + err.Error()))
		os.Exit(1)
	}

	// Plain KEY=VALUE lines, suitable for inspection or diffing
	sorted := append([]string(nil), environ...)
	sort.Strings(sorted)
	for _, kv := range sorted {
		fmt.Println(kv)
	}
}

func handleInit() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println(errorStyle.Render("Error loading config: " + err.Error()))
		os.Exit(1)
	}

	title := theme.Title.Padding(0, 2).Render("New Launch Profile")
	fmt.Println()
	fmt.Println(theme.TitleBox.Render(title))
	fmt.Println()

	var profile config.Profile

	err = huh.NewInput().
		Title(theme.Subtitle.Render("Profile name")).
		Placeholder("nrldc").
		Validate(func(s string) error {
			s = strings.TrimSpace(s)
			if s == "" {
				return fmt.Errorf("name is required")
			}
			if cfg.HasProfile(s) {
				return fmt.Errorf("profile '%s' already exists", s)
			}
			return nil
		}).
		Value(&profile.Name).
		Run()
	if err != nil {
		fmt.Println(warningStyle.Render("Cancelled."))
		os.Exit(1)
	}

	err = huh.NewInput().
		Title(theme.Subtitle.Render("Django project directory")).
		Description(theme.Faint.Render("The directory containing manage.py")).
		Validate(func(s string) error {
			info, err := os.Stat(strings.TrimSpace(s))
			if err != nil {
				return fmt.Errorf("directory not found")
			}
			if !info.IsDir() {
				return fmt.Errorf("not a directory")
			}
			return nil
		}).
		Value(&profile.ProjectDir).
		Run()
	if err != nil {
		fmt.Println(warningStyle.Render("Cancelled."))
		os.Exit(1)
	}

	err = huh.NewInput().
		Title(theme.Subtitle.Render("Management command")).
		Placeholder("nrldc_project").
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("command is required")
			}
			return nil
		}).
		Value(&profile.Command).
		Run()
	if err != nil {
		fmt.Println(warningStyle.Render("Cancelled."))
		os.Exit(1)
	}

	err = huh.NewInput().
		Title(theme.Subtitle.Render("Virtual environment root")).
		Description(theme.Faint.Render("Leave empty to use the system python")).
		Validate(func(s string) error {
			s = strings.TrimSpace(s)
			if s == "" {
				return nil
			}
			if _, err := python.Open(s); err != nil {
				return err
			}
			return nil
		}).
		Value(&profile.Venv).
		Run()
	if err != nil {
		fmt.Println(warningStyle.Render("Cancelled."))
		os.Exit(1)
	}

	// JDK selection from detected installations
	detector := java.NewDetector()
	var versions []java.Version
	java.WithScanner(func() error {
		versions, _ = detector.FindAll()
		return nil
	})

	if len(versions) > 0 {
		options := make([]huh.Option[string], 0, len(versions)+1)
		options = append(options, huh.NewOption(theme.Faint.Render("None (no JAVA_HOME)"), ""))
		for _, v := range versions {
			label := fmt.Sprintf("%s %s", currentStyle.Render(v.Version), v.Path)
			options = append(options, huh.NewOption(label, v.Path))
		}

		err = huh.NewSelect[string]().
			Title(theme.Subtitle.Render("JDK for this project")).
			Description(theme.Faint.Render("Needed when the command drives Java tooling (e.g. tabula PDF extraction)")).
			Options(options...).
			Value(&profile.JavaHome).
			Run()
		if err != nil {
			fmt.Println(warningStyle.Render("Cancelled."))
			os.Exit(1)
		}
	}

	profile.Name = strings.TrimSpace(profile.Name)
	profile.ProjectDir = strings.TrimSpace(profile.ProjectDir)
	profile.Command = strings.TrimSpace(profile.Command)
	profile.Venv = strings.TrimSpace(profile.Venv)

	if _, err := os.Stat(filepath.Join(profile.ProjectDir, profile.ManageScript())); err != nil {
		fmt.Println(theme.WarningMessage("No manage.py in that directory - 'dj run' will refuse to launch until it exists"))
	}

	cfg.AddProfile(profile)
	if cfg.DefaultProfile == "" && len(cfg.Profiles) == 1 {
		cfg.DefaultProfile = profile.Name
	}

	if err := cfg.Save(); err != nil {
		fmt.Println(errorStyle.Render("Error saving config: " + err.Error()))
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println(theme.SuccessMessage("Profile '" + profile.Name + "' created"))
	fmt.Println("  " + theme.Faint.Render("Run it with ") + theme.Code.Render("dj run "+profile.Name))
}

func handleRemove(args []string) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println(errorStyle.Render("Error loading config: " + err.Error()))
		os.Exit(1)
	}

	var nameToRemove string

	// Interactive mode if no profile specified
	if len(args) < 1 {
		if len(cfg.Profiles) == 0 {
			fmt.Println(theme.InfoMessage("No launch profiles to remove"))
			fmt.Println("  " + theme.Faint.Render("Use ") + theme.Code.Render("dj init") + theme.Faint.Render(" to create one"))
			return
		}

		options := make([]huh.Option[string], len(cfg.Profiles))
		for i, p := range cfg.Profiles {
			name := currentStyle.Render(p.Name)
			vis := lipgloss.Width(name)
			pad := ""
			if vis < 15 {
				pad = strings.Repeat(" ", 15-vis)
			}
			label := fmt.Sprintf("%s%s %s %s", name, pad, p.ProjectDir, theme.Faint.Render("("+p.Command+")"))
			options[i] = huh.NewOption(label, p.Name)
		}

		err := huh.NewSelect[string]().
			Title(theme.Subtitle.Render("Select Profile to Remove")).
			Description(theme.Faint.Render("Use arrow keys to navigate, Enter to select")).
			Options(options...).
			Value(&nameToRemove).
			Run()

		if err != nil {
			fmt.Println(warningStyle.Render(fmt.Sprintf("Selection cancelled: %v", err)))
			os.Exit(1)
		}
	} else {
		nameToRemove = args[0]
	}

	if !cfg.HasProfile(nameToRemove) {
		fmt.Println(warningStyle.Render("No such profile: " + nameToRemove))
		return
	}

	confirmed, err := confirmAction(
		fmt.Sprintf("Remove profile '%s'?", nameToRemove),
		"Only the dj profile is deleted; the project and venv stay untouched.",
	)
	if err != nil || !confirmed {
		fmt.Println(warningStyle.Render("Operation cancelled."))
		return
	}

	cfg.RemoveProfile(nameToRemove)

	if err := cfg.Save(); err != nil {
		fmt.Println(errorStyle.Render("Error saving config: " + err.Error()))
		os.Exit(1)
	}

	fmt.Println(successStyle.Render("✓ Profile removed."))
}

func handleUse(args []string) {
	persist := false
	name := ""
	for _, a := range args {
		if a == "--persist" {
			persist = true
			continue
		}
		name = a
	}

	if name == "" {
		fmt.Println(errorStyle.Render("Usage: dj use <profile> [--persist]"))
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Println(errorStyle.Render("Error loading config: " + err.Error()))
		os.Exit(1)
	}

	if err := cfg.SetDefault(name); err != nil {
		fmt.Println(errorStyle.Render("Error: " + err.Error()))
		fmt.Println(infoStyle.Render("Use 'dj list' to see configured profiles."))
		os.Exit(1)
	}

	if err := cfg.Save(); err != nil {
		fmt.Println(errorStyle.Render("Error saving config: " + err.Error()))
		os.Exit(1)
	}

	fmt.Println(successStyle.Render("✓ Default profile set to '" + cfg.DefaultProfile + "'"))

	if persist {
		profile := cfg.GetProfile(name)
		spec := profile.JavaHome
		if spec == "" {
			spec = profile.JavaVersion
		}
		if spec == "" {
			fmt.Println(theme.WarningMessage("Profile has no JDK configured, nothing to persist"))
			return
		}

		home, err := java.NewDetector().Resolve(spec)
		if err != nil {
			fmt.Println(errorStyle.Render("Error: " + err.Error()))
			os.Exit(1)
		}

		if !env.IsAdmin() {
			fmt.Println(theme.WarningMessage("Not running as administrator, persisting JAVA_HOME will likely fail"))
		}

		if err := env.PersistJavaHome(home); err != nil {
			fmt.Println(errorStyle.Render(fmt.Sprintf("Error: %v", err)))
			fmt.Println()
			fmt.Println(warningStyle.Render("Note: Persisting JAVA_HOME requires Windows and administrator privileges."))
			os.Exit(1)
		}

		fmt.Println(successStyle.Render("✓ JAVA_HOME persisted system-wide"))
		fmt.Println(theme.Faint.Render("Note: You may need to restart your terminal for changes to take effect."))
	}
}

func handleJDKs() {
	detector := java.NewDetector()

	var versions []java.Version
	var scanErr error

	// Scan with spinner
	java.WithScanner(func() error {
		var err error
		versions, err = detector.FindAll()
		scanErr = err
		return nil
	})

	if scanErr != nil {
		fmt.Println(errorStyle.Render("Error finding JDK installations: " + scanErr.Error()))
		os.Exit(1)
	}

	if len(versions) == 0 {
		fmt.Println(warningStyle.Render("No JDK installations found."))
		fmt.Println(infoStyle.Render("Use 'dj paths add <directory>' if your JDKs live elsewhere."))
		return
	}

	current := os.Getenv("JAVA_HOME")
	if sys, err := env.SystemJavaHome(); err == nil && sys != "" {
		current = sys
	}

	fmt.Println(titleStyle.Render("Detected JDK Installations:"))
	fmt.Println()

	for _, v := range versions {
		marker := "  "
		versionStr := v.Version
		if strings.EqualFold(v.Path, current) {
			marker = "→ "
			versionStr = currentStyle.Render(v.Version)
		}

		source := "auto"
		if v.IsCustom {
			source = "custom"
		}

		visW := lipgloss.Width(versionStr)
		pad := 0
		if visW < 15 {
			pad = 15 - visW
		}
		fmt.Printf("%s%s%s %s %s\n", marker, versionStr, strings.Repeat(" ", pad), v.Path, theme.Faint.Render("("+source+")"))
	}
}

func handlePaths(args []string) {
	if len(args) < 1 {
		handleListPaths()
		return
	}

	switch args[0] {
	case "add":
		handleAddPath(args[1:])
	case "remove":
		handleRemovePath(args[1:])
	case "list":
		handleListPaths()
	default:
		fmt.Println(errorStyle.Render("Unknown paths subcommand: " + args[0]))
		fmt.Println(infoStyle.Render("Usage: dj paths [add <directory> | remove [directory] | list]"))
		os.Exit(1)
	}
}

func handleAddPath(args []string) {
	if len(args) < 1 {
		fmt.Println(errorStyle.Render("Usage: dj paths add <directory>"))
		fmt.Println(infoStyle.Render("Example: dj paths add /opt/custom-jdks"))
		fmt.Println()
		fmt.Println(theme.Faint.Render("This adds a directory where the detector will search for JDK installations."))
		os.Exit(1)
	}

	path := args[0]

	detector := java.NewDetector()
	if !detector.IsValidSearchPath(path) {
		fmt.Println(errorStyle.Render("Invalid directory path: " + path))
		fmt.Println(theme.Faint.Render("Make sure the path exists and is a directory."))
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Println(errorStyle.Render("Error loading config: " + err.Error()))
		os.Exit(1)
	}

	if cfg.HasSearchPath(path) {
		fmt.Println(warningStyle.Render("This search path is already configured."))
		return
	}

	confirmed, err := confirmAction(
		"Add search path?",
		fmt.Sprintf("Path: %s\n\nThe detector will scan this directory for JDK installations.", path),
	)
	if err != nil || !confirmed {
		fmt.Println(warningStyle.Render("Operation cancelled."))
		return
	}

	cfg.AddSearchPath(path)
	if err := cfg.Save(); err != nil {
		fmt.Println(errorStyle.Render("Error saving config: " + err.Error()))
		os.Exit(1)
	}

	fmt.Println(theme.SuccessMessage("Added search path:"))
	fmt.Println("  " + theme.PathStyle.Render(path))
	fmt.Println(theme.Faint.Render("Run ") + theme.Code.Render("dj jdks") + theme.Faint.Render(" to see detected installations"))
}

func handleRemovePath(args []string) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println(errorStyle.Render("Error loading config: " + err.Error()))
		os.Exit(1)
	}

	var pathToRemove string

	// Interactive mode if no path specified
	if len(args) < 1 {
		if len(cfg.SearchPaths) == 0 {
			fmt.Println(theme.InfoMessage("No custom search paths to remove"))
			fmt.Println("  " + theme.Faint.Render("Use ") + theme.Code.Render("dj paths add <directory>") + theme.Faint.Render(" to add one"))
			return
		}

		detector := java.NewDetector()
		maxW := 0
		for _, p := range cfg.SearchPaths {
			if w := lipgloss.Width(theme.CurrentStyle.Render(p)); w > maxW {
				maxW = w
			}
		}

		options := make([]huh.Option[string], len(cfg.SearchPaths))
		for i, p := range cfg.SearchPaths {
			renderedPath := theme.CurrentStyle.Render(p)
			pad := ""
			if w := lipgloss.Width(renderedPath); w < maxW {
				pad = strings.Repeat(" ", maxW-w)
			}
			status := theme.Faint.Render("Not found")
			if detector.IsValidSearchPath(p) {
				status = theme.SuccessStyle.Render("✓ Exists")
			}
			label := fmt.Sprintf("%s%s  %s", renderedPath, pad, status)
			options[i] = huh.NewOption(label, p)
		}

		err := huh.NewSelect[string]().
			Title(theme.Subtitle.Render("Select Search Path to Remove")).
			Description(theme.Faint.Render("Use arrow keys to navigate, Enter to select")).
			Options(options...).
			Value(&pathToRemove).
			Run()

		if err != nil {
			fmt.Println(warningStyle.Render(fmt.Sprintf("Selection cancelled: %v", err)))
			os.Exit(1)
		}
	} else {
		pathToRemove = args[0]
	}

	if !cfg.HasSearchPath(pathToRemove) {
		fmt.Println(warningStyle.Render("This path is not in the search paths list."))
		return
	}

	confirmed, err := confirmAction(
		"Remove search path?",
		fmt.Sprintf("Path: %s", pathToRemove),
	)
	if err != nil || !confirmed {
		fmt.Println(warningStyle.Render("Operation cancelled."))
		return
	}

	cfg.RemoveSearchPath(pathToRemove)
	if err := cfg.Save(); err != nil {
		fmt.Println(errorStyle.Render("Error saving config: " + err.Error()))
		os.Exit(1)
	}

	fmt.Println(successStyle.Render("✓ Removed search path."))
}

func handleListPaths() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println(errorStyle.Render("Error loading config: " + err.Error()))
		os.Exit(1)
	}

	detector := java.NewDetector()

	fmt.Println(titleStyle.Render("JDK Search Paths"))
	fmt.Println()

	headerStyle := theme.TableHeader
	cellStyle := theme.TableCell
	existsStyle := theme.SuccessStyle.Padding(0, 1)
	notFoundStyle := theme.ErrorStyle.Padding(0, 1)
	tableStyle := theme.TableStyle

	// Standard paths table
	fmt.Println(theme.LabelStyle.Render("Standard Paths (built-in):"))
	fmt.Println()

	var rows []string
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Left,
		headerStyle.Render("Path"),
		headerStyle.Width(50).Render(""),
		headerStyle.Render("Status"),
	))

	for _, p := range detector.StandardPaths() {
		status := cellStyle.Faint(true).Render("Not found")
		if detector.IsValidSearchPath(p) {
			status = existsStyle.Render("✓ Exists")
		}

		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Left,
			cellStyle.Width(58).Render(p),
			status,
		))
	}

	table := lipgloss.JoinVertical(lipgloss.Left, rows...)
	fmt.Println(tableStyle.Render(table))
	fmt.Println()

	// Custom paths table
	if len(cfg.SearchPaths) > 0 {
		fmt.Println(theme.LabelStyle.Render("Custom Search Paths:"))
		fmt.Println()

		var customRows []string
		customRows = append(customRows, lipgloss.JoinHorizontal(lipgloss.Left,
			headerStyle.Render("Path"),
			headerStyle.Width(50).Render(""),
			headerStyle.Render("Status"),
		))

		for _, p := range cfg.SearchPaths {
			status := notFoundStyle.Render("✗ Not found")
			if detector.IsValidSearchPath(p) {
				status = existsStyle.Render("✓ Exists")
			}

			customRows = append(customRows, lipgloss.JoinHorizontal(lipgloss.Left,
				cellStyle.Width(58).Render(p),
				status,
			))
		}

		customTable := lipgloss.JoinVertical(lipgloss.Left, customRows...)
		fmt.Println(tableStyle.Render(customTable))
	} else {
		fmt.Println(infoStyle.Render("No custom search paths configured."))
		fmt.Println(theme.Faint.Render("Use 'dj paths add <directory>' to add one."))
	}
	fmt.Println()
}

func handleDoctor(args []string) {
	fmt.Println(titleStyle.Render("dj - Launch Diagnostics"))
	fmt.Println()

	issues := []string{}
	warnings := []string{}

	// 1. Configuration
	fmt.Println(theme.LabelStyle.Render("Checking configuration..."))
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("  %s %v\n", theme.ErrorMessage("Configuration file error:"), err)
		fmt.Println()
		fmt.Println(boxStyle.Render(errorStyle.Render("Cannot continue without a readable config")))
		os.Exit(1)
	}
	if _, statErr := os.Stat(cfg.Path()); os.IsNotExist(statErr) {
		fmt.Println("  " + theme.WarningMessage("Configuration file does not exist (will be created when needed)"))
	} else {
		fmt.Println("  " + theme.SuccessMessage("Configuration file exists and is valid"))
	}
	fmt.Println()

	// 2. Profile resolution
	fmt.Println(theme.LabelStyle.Render("Checking profile..."))
	var profile *config.Profile
	if len(args) > 0 {
		profile = cfg.GetProfile(args[0])
		if profile == nil {
			fmt.Println("  " + theme.ErrorMessage("Profile not found: "+args[0]))
			issues = append(issues, "Profile not found: "+args[0])
		}
	} else {
		profile = cfg.Default()
		if profile == nil {
			if len(cfg.Profiles) == 0 {
				fmt.Println("  " + theme.WarningMessage("No profiles configured"))
				warnings = append(warnings, "No launch profiles. Run 'dj init' to create one.")
			} else {
				fmt.Println("  " + theme.WarningMessage("No default profile set"))
				warnings = append(warnings, "Multiple profiles but no default. Run 'dj use <profile>'.")
			}
		}
	}
	if profile != nil {
		fmt.Println("  " + theme.SuccessMessage("Using profile: "+profile.Name))
	}
	fmt.Println()

	if profile != nil {
		// 3. Project directory and manage script
		fmt.Println(theme.LabelStyle.Render("Checking project..."))
		if info, err := os.Stat(profile.ProjectDir); err != nil || !info.IsDir() {
			fmt.Printf("  %s %s\n", theme.ErrorMessage("Project directory missing:"), theme.PathStyle.Render(profile.ProjectDir))
			issues = append(issues, "Project directory missing: "+profile.ProjectDir)
		} else {
			fmt.Printf("  %s %s\n", theme.SuccessMessage("Project directory exists:"), theme.PathStyle.Render(profile.ProjectDir))
			manage := filepath.Join(profile.ProjectDir, profile.ManageScript())
			if _, err := os.Stat(manage); err != nil {
				fmt.Printf("  %s %s\n", theme.ErrorMessage("Management script missing:"), theme.PathStyle.Render(manage))
				issues = append(issues, "Management script missing: "+manage)
			} else {
				fmt.Println("  " + theme.SuccessMessage("Management script found: "+profile.ManageScript()))
			}
		}
		fmt.Println()

		// 4. Virtual environment
		fmt.Println(theme.LabelStyle.Render("Checking virtual environment..."))
		if profile.Venv == "" {
			fmt.Println("  " + theme.WarningMessage("No venv configured, system python will be used"))
			warnings = append(warnings, "Profile has no virtual environment configured")
		} else if v, err := python.Open(profile.Venv); err != nil {
			fmt.Printf("  %s %v\n", theme.ErrorMessage("Venv problem:"), err)
			issues = append(issues, fmt.Sprintf("Virtual environment: %v", err))
		} else if !v.IsValid() {
			fmt.Printf("  %s %s\n", theme.ErrorMessage("Venv has no python interpreter:"), theme.PathStyle.Render(v.Root))
			issues = append(issues, "Virtual environment has no interpreter: "+v.Root)
		} else {
			fmt.Printf("  %s %s %s\n", theme.SuccessMessage("Venv is valid:"), theme.PathStyle.Render(v.Root), theme.Faint.Render("(python "+v.Version+")"))
		}
		fmt.Println()

		// 5. JDK
		fmt.Println(theme.LabelStyle.Render("Checking JDK..."))
		spec := profile.JavaHome
		if spec == "" {
			spec = profile.JavaVersion
		}
		if spec == "" {
			fmt.Println("  " + theme.InfoMessage("No JDK configured for this profile"))
		} else {
			detector := java.NewDetector()
			if home, err := detector.Resolve(spec); err != nil {
				fmt.Printf("  %s %v\n", theme.ErrorMessage("JDK problem:"), err)
				issues = append(issues, fmt.Sprintf("JDK: %v", err))
			} else {
				fmt.Printf("  %s %s %s\n", theme.SuccessMessage("JDK is valid:"), theme.PathStyle.Render(home), theme.Faint.Render("(java "+detector.GetVersion(home)+")"))
			}
		}
		fmt.Println()

		// 6. Full launch rehearsal (everything except the exec)
		fmt.Println(theme.LabelStyle.Render("Checking launch..."))
		l := launcher.New(*profile)
		if err := l.Resolve(java.NewDetector()); err != nil {
			fmt.Printf("  %s %v\n", theme.ErrorMessage("Resolution failed:"), err)
			issues = append(issues, fmt.Sprintf("Launch resolution: %v", err))
		} else if err := l.Validate(); err != nil {
			fmt.Printf("  %s %v\n", theme.ErrorMessage("Validation failed:"), err)
			issues = append(issues, fmt.Sprintf("Launch validation: %v", err))
		} else if _, err := l.Environ(context.Background()); err != nil {
			fmt.Printf("  %s %v\n", theme.ErrorMessage("Environment assembly failed:"), err)
			issues = append(issues, fmt.Sprintf("Environment assembly: %v", err))
		} else {
			fmt.Println("  " + theme.SuccessMessage("Launch would proceed with interpreter: "+l.Interpreter()))
		}
		fmt.Println()
	}

	// Summary
	fmt.Println()
	fmt.Println(titleStyle.Render("Diagnostics Summary"))
	fmt.Println()

	if len(issues) == 0 && len(warnings) == 0 {
		successBox := theme.SuccessBox.Render(theme.SuccessMessage("All checks passed!") + "\n\nYour launch environment is properly configured.")
		fmt.Println(successBox)
		return
	}

	var summaryContent string

	if len(issues) > 0 {
		summaryContent += errorStyle.Render(fmt.Sprintf("Issues Found: %d", len(issues))) + "\n\n"
		for _, issue := range issues {
			summaryContent += theme.ErrorMessage(issue) + "\n"
		}
	}

	if len(warnings) > 0 {
		if len(issues) > 0 {
			summaryContent += "\n"
		}
		summaryContent += warningStyle.Render(fmt.Sprintf("Warnings: %d", len(warnings))) + "\n\n"
		for _, warning := range warnings {
			summaryContent += theme.WarningMessage(warning) + "\n"
		}
	}

	fmt.Println(boxStyle.Render(summaryContent))

	if len(issues) > 0 {
		os.Exit(1)
	}
}

// mustResolveProfile loads the config and picks the named profile, falling
// back to the default. Exits with guidance when nothing matches.
func mustResolveProfile(name string) *config.Profile {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println(errorStyle.Render("Error loading config: " + err.Error()))
		os.Exit(1)
	}

	if name != "" {
		p := cfg.GetProfile(name)
		if p == nil {
			fmt.Println(errorStyle.Render("No such profile: " + name))
			fmt.Println(infoStyle.Render("Use 'dj list' to see configured profiles."))
			os.Exit(1)
		}
		return p
	}

	p := cfg.Default()
	if p == nil {
		if len(cfg.Profiles) == 0 {
			fmt.Println(warningStyle.Render("No launch profiles configured."))
			fmt.Println(infoStyle.Render("Run 'dj init' to create one."))
		} else {
			fmt.Println(warningStyle.Render("Multiple profiles and no default."))
			fmt.Println(infoStyle.Render("Run 'dj use <profile>' or name one explicitly: dj run <profile>"))
		}
		os.Exit(1)
	}
	return p
}

// confirmAction shows a confirmation prompt
func confirmAction(title, description string) (bool, error) {
	var confirmed bool

	err := huh.NewConfirm().
		Title(theme.Subtitle.Render(title)).
		Description(theme.Faint.Render(description)).
		Affirmative(theme.SuccessStyle.Render("Yes")).
		Negative(theme.ErrorStyle.Render("No")).
		Value(&confirmed).
		Run()

	return confirmed, err
}

func handleUpdate() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println(errorStyle.Render("Error loading config: " + err.Error()))
		os.Exit(1)
	}

	// Check if updates are disabled
	if !cfg.UpdateConfig.Enabled {
		fmt.Println(warningStyle.Render("Updates are disabled in configuration."))
		fmt.Println(theme.Faint.Render("To enable, edit ~/.config/dj/dj.json and set update_config.enabled to true"))
		return
	}

	upd, err := updater.NewUpdater(cfg, Version)
	if err != nil {
		fmt.Println(errorStyle.Render("Error initializing updater: " + err.Error()))
		os.Exit(1)
	}

	updater.ShowCheckingForUpdates()

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), updater.UpdateTimeout)
	defer cancel()

	// Check for update
	release, err := upd.CheckForUpdate(ctx)
	if err != nil {
		fmt.Println(errorStyle.Render("Update check failed: " + err.Error()))
		os.Exit(1)
	}

	// No update available
	if release == nil {
		updater.ShowAlreadyUpToDate(Version)
		return
	}

	// Prompt user for action
	action, err := upd.PromptForUpdate(release)
	if err != nil {
		fmt.Println(warningStyle.Render("Update cancelled."))
		return
	}

	// Handle user's choice
	if action != "update" {
		if action == "skip" {
			fmt.Println(theme.InfoMessage(fmt.Sprintf("Skipped version %s", release.Version())))
		} else {
			fmt.Println(theme.InfoMessage("Update postponed"))
		}
		return
	}

	// Perform the update
	updater.ShowDownloadingUpdate(release.Version())

	if err := upd.PerformUpdate(ctx, release); err != nil {
		fmt.Println()
		fmt.Println(errorStyle.Render("Update failed: " + err.Error()))
		fmt.Println()
		fmt.Println(theme.Faint.Render("Please try again or download manually from:"))
		fmt.Println(theme.Faint.Render("https://github.com/" + updater.GitHubRepo + "/releases"))
		os.Exit(1)
	}

	// Success!
	updater.ShowUpdateSuccess(release.Version())
}

func checkForUpdateBackground() {
	// Don't block program exit
	defer func() {
		if r := recover(); r != nil {
			// Silently ignore panics in background check
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		return
	}

	upd, err := updater.NewUpdater(cfg, Version)
	if err != nil {
		return
	}

	// Check if we should perform a background check
	if !upd.ShouldCheckForUpdate() {
		return
	}

	// Create context with shorter timeout for background check
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Check for update
	release, err := upd.CheckForUpdate(ctx)
	if err != nil || release == nil {
		return
	}

	// Show subtle notification
	updater.ShowUpdateNotification(Version, release.Version())
}

func printVersion() {
	linkStyle := lipgloss.NewStyle().
		Foreground(theme.Info).
		Underline(true)

	fmt.Printf("%s %s %s\n",
		theme.Subtitle.Render("Django Command Launcher (dj)"),
		theme.Faint.Render("version"),
		theme.HighlightText(Version))
	fmt.Println(linkStyle.Render("https://github.com/" + updater.GitHubRepo))
	fmt.Println()

	// Add features badge
	fmt.Println(theme.SuccessStyle.Italic(true).Render("✨ Interactive TUI powered by Huh! and Lip Gloss"))
}

func printUsage() {
	// ASCII Art Banner with DJ theme
	banner := `██████╗      ██╗
██╔══██╗     ██║
██║  ██║     ██║
██║  ██║██   ██║
██████╔╝╚█████╔╝
╚═════╝  ╚════╝ `

	fmt.Println(theme.Banner.Render(banner))
	fmt.Println(theme.Subtitle.Render("Django Command Launcher"))
	fmt.Println(theme.Faint.Render("Bootstraps JAVA_HOME, activates the venv and runs manage.py"))
	fmt.Println()

	// Usage section
	fmt.Println(theme.Title.Render("USAGE"))
	fmt.Println(theme.Faint.Render("  dj <command> [arguments]"))
	fmt.Println()

	// Command categories use theme
	categoryStyle := theme.Subtitle
	commandStyle := theme.CommandStyle
	descStyle := theme.Faint

	fmt.Println(categoryStyle.Render("LAUNCHING"))
	fmt.Printf("  %s [profile]       %s\n",
		commandStyle.Render("run"),
		descStyle.Render("Bootstrap the environment and run the management command"))
	fmt.Printf("  %s [profile]       %s\n",
		commandStyle.Render("env"),
		descStyle.Render("Print the environment the command would run with"))
	fmt.Println()

	fmt.Println(categoryStyle.Render("PROFILES"))
	fmt.Printf("  %s               %s\n",
		commandStyle.Render("init"),
		descStyle.Render("Create a launch profile interactively"))
	fmt.Printf("  %s               %s\n",
		commandStyle.Render("list"),
		descStyle.Render("List configured profiles"))
	fmt.Printf("  %s [profile]      %s\n",
		commandStyle.Render("show"),
		descStyle.Render("Show a profile's resolved settings"))
	fmt.Printf("  %s <profile>       %s\n",
		commandStyle.Render("use"),
		descStyle.Render("Set the default profile (--persist writes JAVA_HOME on Windows)"))
	fmt.Printf("  %s [profile]    %s\n",
		commandStyle.Render("remove"),
		descStyle.Render("Remove a profile"))
	fmt.Println()

	fmt.Println(categoryStyle.Render("DIAGNOSTICS"))
	fmt.Printf("  %s [profile]    %s\n",
		commandStyle.Render("doctor"),
		descStyle.Render("Validate everything a launch needs"))
	fmt.Printf("  %s               %s\n",
		commandStyle.Render("jdks"),
		descStyle.Render("List detected JDK installations"))
	fmt.Printf("  %s              %s\n",
		commandStyle.Render("paths"),
		descStyle.Render("Manage JDK search paths (add/remove/list)"))
	fmt.Println()

	fmt.Println(categoryStyle.Render("UPDATES"))
	fmt.Printf("  %s             %s\n",
		commandStyle.Render("update"),
		descStyle.Render("Check for and install updates"))
	fmt.Println()

	fmt.Println(categoryStyle.Render("OTHER"))
	fmt.Printf("  %s            %s\n",
		commandStyle.Render("version"),
		descStyle.Render("Show version information"))
	fmt.Printf("  %s               %s\n",
		commandStyle.Render("help"),
		descStyle.Render("Show this help message"))
	fmt.Println()

	// Examples section
	fmt.Println(theme.Title.Render("EXAMPLES"))
	fmt.Println("  " + theme.Code.Render("dj init") + "                          # Create a profile")
	fmt.Println("  " + theme.Code.Render("dj run") + "                           # Run the default profile")
	fmt.Println("  " + theme.Code.Render("dj run nrldc") + "                     # Run a named profile")
	fmt.Println("  " + theme.Code.Render("dj run nrldc -- --date 2025-01-01") + "  # Pass extra command arguments")
	fmt.Println("  " + theme.Code.Render("dj run --dry-run") + "                 # Show what would launch")
	fmt.Println("  " + theme.Code.Render("dj doctor") + "                        # Check launch health")
	fmt.Println()

	fmt.Println(theme.Faint.Italic(true).Render("For more information: https://github.com/" + updater.GitHubRepo))
}
