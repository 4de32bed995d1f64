package pyext

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func envGetter(values map[string]string) func(string) string {
	return func(key string) string {
		return values[key]
	}
}

func TestLoadEnvDebugParsing(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    *bool
		wantErr bool
	}{
		{name: "unset", value: "", want: nil},
		{name: "one", value: "1", want: boolPtr(true)},
		{name: "zero", value: "0", want: boolPtr(false)},
		{name: "negative", value: "-1", want: boolPtr(true)},
		{name: "padded", value: " 1 ", want: boolPtr(true)},
		{name: "non-integer", value: "yes", wantErr: true},
		{name: "float", value: "1.5", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env, err := loadEnvFrom(envGetter(map[string]string{EnvDebug: tc.value}))
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tc.want == nil {
				require.Nil(t, env.Debug)
			} else {
				require.NotNil(t, env.Debug)
				require.Equal(t, *tc.want, *env.Debug)
			}
		})
	}
}

func TestLoadEnvSnapshotsValues(t *testing.T) {
	env, err := loadEnvFrom(envGetter(map[string]string{
		EnvToolchainFile: "/vcpkg/scripts/buildsystems/vcpkg.cmake",
		EnvPrefixPath:    "/a;/b",
		EnvPybind11Dir:   "/opt/pybind11",
		EnvGenerator:     "Ninja",
	}))
	require.NoError(t, err)

	require.Equal(t, "/vcpkg/scripts/buildsystems/vcpkg.cmake", env.ToolchainFile)
	require.Equal(t, "/a;/b", env.PrefixPath)
	require.Equal(t, "/opt/pybind11", env.Pybind11Dir)
	require.Equal(t, "Ninja", env.Generator)
}

func TestLoadEnvVcpkgRootFallback(t *testing.T) {
	env, err := loadEnvFrom(envGetter(map[string]string{
		EnvVcpkgRootDir: "/vcpkg",
	}))
	require.NoError(t, err)
	require.Equal(t, filepath.Join("/vcpkg", "scripts", "buildsystems", "vcpkg.cmake"), env.ToolchainFile)
}

func TestLoadEnvExplicitToolchainBeatsVcpkgRoot(t *testing.T) {
	env, err := loadEnvFrom(envGetter(map[string]string{
		EnvVcpkgRootDir:  "/vcpkg",
		EnvToolchainFile: "/custom/toolchain.cmake",
	}))
	require.NoError(t, err)
	require.Equal(t, "/custom/toolchain.cmake", env.ToolchainFile)
}

func TestResolveBuildTypePrecedence(t *testing.T) {
	tests := []struct {
		name        string
		configDebug *bool
		envDebug    *bool
		want        BuildType
	}{
		{name: "both unset defaults to release", want: BuildTypeRelease},
		{name: "env debug applies when config unset", envDebug: boolPtr(true), want: BuildTypeDebug},
		{name: "env release applies when config unset", envDebug: boolPtr(false), want: BuildTypeRelease},
		{name: "config debug wins", configDebug: boolPtr(true), want: BuildTypeDebug},
		{name: "config release overrides env debug", configDebug: boolPtr(false), envDebug: boolPtr(true), want: BuildTypeRelease},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			config := &BuildConfig{
				Debug: tc.configDebug,
				Env:   EnvConfig{Debug: tc.envDebug},
			}
			require.Equal(t, tc.want, config.ResolveBuildType())
		})
	}
}

func boolPtr(v bool) *bool {
	return &v
}
