package pyext

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// emptyPath clears PATH so generator auto-selection deterministically
// fails to locate ninja.
func emptyPath(t *testing.T) {
	t.Helper()
	t.Setenv("PATH", "")
}

func baseConfig(outputDir string) *BuildConfig {
	return &BuildConfig{
		OutputDir:  outputDir,
		BuildDir:   filepath.Join(outputDir, "build"),
		PythonPath: "/usr/bin/python3",
	}
}

func TestConfigureArgsDefaultScenario(t *testing.T) {
	emptyPath(t)

	outDir := t.TempDir()
	config := baseConfig(outDir)
	builder := &CMakeBuilder{}

	args, err := builder.configureArgs(config)
	require.NoError(t, err)

	absOut, err := filepath.Abs(outDir)
	require.NoError(t, err)

	want := []string{
		fmt.Sprintf("-DCMAKE_LIBRARY_OUTPUT_DIRECTORY=%s%c", absOut, os.PathSeparator),
		"-DPYTHON_EXECUTABLE=/usr/bin/python3",
		"-DCMAKE_BUILD_TYPE=Release",
	}
	require.Equal(t, want, args)
}

func TestConfigureArgsToolchainFilePosition(t *testing.T) {
	emptyPath(t)

	config := baseConfig(t.TempDir())
	config.Env.ToolchainFile = "/vcpkg/scripts/buildsystems/vcpkg.cmake"
	builder := &CMakeBuilder{}

	args, err := builder.configureArgs(config)
	require.NoError(t, err)

	require.Len(t, args, 4)
	require.Equal(t, "-DCMAKE_TOOLCHAIN_FILE=/vcpkg/scripts/buildsystems/vcpkg.cmake", args[3])

	count := 0
	for _, arg := range args {
		if strings.HasPrefix(arg, "-DCMAKE_TOOLCHAIN_FILE=") {
			count++
		}
	}
	require.Equal(t, 1, count, "toolchain argument must appear exactly once")
}

func TestConfigureArgsOmitsEmptyOptionals(t *testing.T) {
	emptyPath(t)

	config := baseConfig(t.TempDir())
	builder := &CMakeBuilder{}

	args, err := builder.configureArgs(config)
	require.NoError(t, err)

	for _, arg := range args {
		require.False(t, strings.HasPrefix(arg, "-DCMAKE_TOOLCHAIN_FILE"), "unset toolchain must not produce an argument")
		require.False(t, strings.HasPrefix(arg, "-DCMAKE_PREFIX_PATH"), "unset prefix path must not produce an argument")
		require.False(t, strings.HasPrefix(arg, "-Dpybind11_DIR"), "unset pybind11 dir must not produce an argument")
	}
}

func TestConfigureArgsPrefixPathVerbatim(t *testing.T) {
	emptyPath(t)

	config := baseConfig(t.TempDir())
	config.Env.PrefixPath = "/a;/b"
	builder := &CMakeBuilder{}

	args, err := builder.configureArgs(config)
	require.NoError(t, err)

	var prefixArgs []string
	for _, arg := range args {
		if strings.HasPrefix(arg, "-DCMAKE_PREFIX_PATH=") {
			prefixArgs = append(prefixArgs, arg)
		}
	}
	require.Equal(t, []string{"-DCMAKE_PREFIX_PATH=/a;/b"}, prefixArgs)
}

func TestConfigureArgsPybind11Dir(t *testing.T) {
	emptyPath(t)

	config := baseConfig(t.TempDir())
	config.Env.Pybind11Dir = "/opt/pybind11/share/cmake/pybind11"
	builder := &CMakeBuilder{}

	args, err := builder.configureArgs(config)
	require.NoError(t, err)
	require.Contains(t, args, "-Dpybind11_DIR=/opt/pybind11/share/cmake/pybind11")
}

func TestConfigureArgsDebugBuildType(t *testing.T) {
	emptyPath(t)

	debug := true
	config := baseConfig(t.TempDir())
	config.Debug = &debug
	builder := &CMakeBuilder{}

	args, err := builder.configureArgs(config)
	require.NoError(t, err)
	require.Contains(t, args, "-DCMAKE_BUILD_TYPE=Debug")
}

func TestGeneratorArgsNinjaFound(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake ninja executable layout is unix-specific")
	}

	binDir := t.TempDir()
	ninjaPath := filepath.Join(binDir, "ninja")
	require.NoError(t, os.WriteFile(ninjaPath, []byte("#!/bin/sh\n"), 0o755))
	t.Setenv("PATH", binDir)

	config := baseConfig(t.TempDir())
	builder := &CMakeBuilder{}

	args, err := builder.generatorArgs(config)
	require.NoError(t, err)
	require.Equal(t, []string{"-GNinja", "-DCMAKE_MAKE_PROGRAM=" + ninjaPath}, args)
}

func TestGeneratorArgsNinjaMissingDegradesSilently(t *testing.T) {
	emptyPath(t)

	config := baseConfig(t.TempDir())
	config.Env.Generator = ninjaGenerator
	builder := &CMakeBuilder{}

	args, err := builder.generatorArgs(config)
	require.NoError(t, err)
	require.Empty(t, args, "missing ninja must degrade to default generator selection, not fail")
}

func TestGeneratorArgsExplicitGeneratorSkipsNinja(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake ninja executable layout is unix-specific")
	}

	binDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(binDir, "ninja"), []byte("#!/bin/sh\n"), 0o755))
	t.Setenv("PATH", binDir)

	config := baseConfig(t.TempDir())
	config.Env.Generator = "Unix Makefiles"
	builder := &CMakeBuilder{}

	args, err := builder.generatorArgs(config)
	require.NoError(t, err)
	require.Empty(t, args, "an explicitly requested generator is left to cmake itself")
}

func TestGeneratorArgsMSVCPlatform(t *testing.T) {
	config := baseConfig(t.TempDir())
	config.Compiler = CompilerMSVC
	builder := &CMakeBuilder{}

	platform, perr := generatorPlatformFor(runtime.GOARCH)
	args, err := builder.generatorArgs(config)

	if perr != nil {
		require.Error(t, err)
		return
	}

	require.NoError(t, err)
	require.Equal(t, []string{"-A", platform.String()}, args)
}

func TestBuildArgsParallel(t *testing.T) {
	builder := &CMakeBuilder{}

	config := baseConfig(t.TempDir())
	require.Equal(t, []string{"--build", "."}, builder.buildArgs(config))

	config.Parallel = 4
	require.Equal(t, []string{"--build", ".", "--parallel", "4"}, builder.buildArgs(config))
}

func TestBuildWorkDirIsPerTarget(t *testing.T) {
	config := baseConfig(t.TempDir())
	config.BuildDir = "/tmp/work"

	a := buildWorkDir(config, ExtensionTarget{Name: "_pyapsi"})
	b := buildWorkDir(config, ExtensionTarget{Name: "_other"})

	require.Equal(t, filepath.Join("/tmp/work", "_pyapsi"), a)
	require.NotEqual(t, a, b)
}

func TestCleanMissingBuildDirIsNoop(t *testing.T) {
	config := baseConfig(t.TempDir())
	config.BuildDir = filepath.Join(t.TempDir(), "does-not-exist")
	builder := &CMakeBuilder{}

	err := builder.Clean(context.Background(), config, ExtensionTarget{Name: "_pyapsi"})
	require.NoError(t, err)
}
