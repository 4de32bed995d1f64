package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	pyext "github.com/contriboss/python-extension-go"
)

const version = "0.1.2"

var CLI struct {
	Manifest string `short:"m" help:"Manifest file path" default:"pyext.yaml"`
	Verbose  bool   `short:"v" help:"Enable verbose logging"`

	Build struct {
		Debug     *bool  `help:"Force a debug build (overrides the DEBUG environment variable)"`
		Parallel  int    `short:"j" help:"Parallel build jobs (0 = tool default)"`
		Python    string `help:"Python interpreter passed to the build"`
		Only      string `help:"Build only the named extension"`
		KeepGoing bool   `short:"k" help:"Continue past failed extensions"`
	} `cmd:"" help:"Build the extension modules declared in the manifest"`

	Clean struct{} `cmd:"" help:"Remove build artifacts for all declared extensions"`

	Tools struct{} `cmd:"" help:"Check that the required build tools are installed"`

	Version struct{} `cmd:"" help:"Print the version"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	// Optional .env next to the manifest; absence is fine.
	_ = godotenv.Load()

	var err error
	switch ctx.Command() {
	case "build":
		err = runBuild()
	case "clean":
		err = runClean()
	case "tools":
		err = runTools()
	case "version":
		fmt.Println(version)
	default:
		err = fmt.Errorf("unknown command: %s", ctx.Command())
	}

	if err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

// loadConfig assembles the build configuration from the manifest, the
// environment snapshot, and the CLI flags. Flags win over the manifest.
func loadConfig() (*pyext.BuildConfig, []pyext.ExtensionTarget, error) {
	manifest, err := pyext.LoadManifest(CLI.Manifest)
	if err != nil {
		return nil, nil, err
	}

	env, err := pyext.LoadEnv()
	if err != nil {
		return nil, nil, err
	}

	python := manifest.Python
	if CLI.Build.Python != "" {
		python = CLI.Build.Python
	}
	if python == "" {
		python = pyext.DefaultPython()
	}

	parallel := manifest.Parallel
	if CLI.Build.Parallel > 0 {
		parallel = CLI.Build.Parallel
	}

	config := &pyext.BuildConfig{
		OutputDir:     manifest.OutputDir(),
		BuildDir:      manifest.BuildRoot(),
		PackageDir:    manifest.PackageDir(),
		PythonPath:    python,
		Compiler:      pyext.DetectCompiler(),
		Env:           env,
		Debug:         CLI.Build.Debug,
		Parallel:      parallel,
		Verbose:       CLI.Verbose,
		StopOnFailure: !CLI.Build.KeepGoing,
	}

	targets := manifest.Targets()
	if CLI.Build.Only != "" {
		var filtered []pyext.ExtensionTarget
		for _, target := range targets {
			if target.Name == CLI.Build.Only {
				filtered = append(filtered, target)
			}
		}
		if len(filtered) == 0 {
			return nil, nil, fmt.Errorf("extension %q not declared in %s", CLI.Build.Only, CLI.Manifest)
		}
		targets = filtered
	}

	return config, targets, nil
}

func runBuild() error {
	config, targets, err := loadConfig()
	if err != nil {
		return err
	}

	signalCtx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	factory := pyext.NewBuilderFactory()

	start := time.Now()
	slog.Info("Building extensions",
		"count", len(targets),
		"build_type", config.ResolveBuildType(),
		"output", config.OutputDir)

	results, err := factory.BuildAllExtensions(signalCtx, config, targets)

	for i, result := range results {
		if i >= len(targets) {
			break
		}
		name := targets[i].Name
		if result.Success {
			slog.Info("Extension built", "name", name, "modules", result.Modules)
		} else {
			slog.Error("Extension build failed", "name", name, "error", result.Error)
		}
	}

	if err != nil {
		return err
	}

	slog.Info("Build complete", "duration", time.Since(start).Round(time.Millisecond))
	return nil
}

func runClean() error {
	config, targets, err := loadConfig()
	if err != nil {
		return err
	}

	factory := pyext.NewBuilderFactory()

	for _, target := range targets {
		builder, err := factory.BuilderForTarget(target)
		if err != nil {
			slog.Warn("Skipping clean", "name", target.Name, "reason", err)
			continue
		}
		if err := builder.Clean(context.Background(), config, target); err != nil {
			return fmt.Errorf("failed to clean %s: %w", target.Name, err)
		}
		slog.Info("Cleaned extension", "name", target.Name)
	}

	return nil
}

func runTools() error {
	factory := pyext.NewBuilderFactory()

	for _, builder := range factory.ListBuilders() {
		checker, ok := builder.(pyext.ToolChecker)
		if !ok {
			continue
		}

		if err := checker.CheckTools(); err != nil {
			return fmt.Errorf("%s: %w", builder.Name(), err)
		}

		for _, tool := range checker.RequiredTools() {
			status := "found"
			if err := pyext.CheckToolAvailable(tool.Name); err != nil {
				status = "missing"
				if tool.Optional {
					status = "missing (optional)"
				}
			}
			slog.Info("Tool", "builder", builder.Name(), "name", tool.Name, "status", status)
		}
	}

	slog.Info("All required tools available")
	return nil
}
