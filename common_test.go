package pyext

import (
	"context"
	"errors"
	"testing"
)

func TestRunCommonBuildShortCircuitsOnConfigureFailure(t *testing.T) {
	configureErr := errors.New("configure failed")
	buildInvoked := false
	findInvoked := false

	steps := CommonBuildSteps{
		ConfigureFunc: func(ctx context.Context, config *BuildConfig, target ExtensionTarget, result *BuildResult) error {
			return configureErr
		},
		BuildFunc: func(ctx context.Context, config *BuildConfig, target ExtensionTarget, result *BuildResult) error {
			buildInvoked = true
			return nil
		},
		FindFunc: func(config *BuildConfig, target ExtensionTarget) ([]string, error) {
			findInvoked = true
			return nil, nil
		},
	}

	result, err := runCommonBuild(context.Background(), &BuildConfig{}, ExtensionTarget{Name: "_pyapsi"}, steps)

	if !errors.Is(err, configureErr) {
		t.Fatalf("expected configure error, got %v", err)
	}
	if result.Success {
		t.Error("result should not be successful")
	}
	if result.Error == nil {
		t.Error("result should carry the error")
	}
	if buildInvoked {
		t.Error("build step must never run after a failed configure step")
	}
	if findInvoked {
		t.Error("find step must never run after a failed configure step")
	}
}

func TestRunCommonBuildStopsAfterBuildFailure(t *testing.T) {
	buildErr := errors.New("build failed")
	findInvoked := false

	steps := CommonBuildSteps{
		ConfigureFunc: func(ctx context.Context, config *BuildConfig, target ExtensionTarget, result *BuildResult) error {
			return nil
		},
		BuildFunc: func(ctx context.Context, config *BuildConfig, target ExtensionTarget, result *BuildResult) error {
			return buildErr
		},
		FindFunc: func(config *BuildConfig, target ExtensionTarget) ([]string, error) {
			findInvoked = true
			return nil, nil
		},
	}

	result, err := runCommonBuild(context.Background(), &BuildConfig{}, ExtensionTarget{Name: "_pyapsi"}, steps)

	if !errors.Is(err, buildErr) {
		t.Fatalf("expected build error, got %v", err)
	}
	if result.Success {
		t.Error("result should not be successful")
	}
	if findInvoked {
		t.Error("find step must not run after a failed build step")
	}
}

func TestRunCommonBuildSuccess(t *testing.T) {
	var order []string

	steps := CommonBuildSteps{
		ConfigureFunc: func(ctx context.Context, config *BuildConfig, target ExtensionTarget, result *BuildResult) error {
			order = append(order, "configure")
			return nil
		},
		BuildFunc: func(ctx context.Context, config *BuildConfig, target ExtensionTarget, result *BuildResult) error {
			order = append(order, "build")
			return nil
		},
		FindFunc: func(config *BuildConfig, target ExtensionTarget) ([]string, error) {
			order = append(order, "find")
			return []string{"_pyapsi.so"}, nil
		},
	}

	result, err := runCommonBuild(context.Background(), &BuildConfig{}, ExtensionTarget{Name: "_pyapsi"}, steps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success {
		t.Error("result should be successful")
	}
	if len(result.Modules) != 1 || result.Modules[0] != "_pyapsi.so" {
		t.Errorf("unexpected modules: %v", result.Modules)
	}

	want := []string{"configure", "build", "find"}
	if len(order) != len(want) {
		t.Fatalf("expected steps %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected steps %v, got %v", want, order)
		}
	}
}
