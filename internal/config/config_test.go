// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/bundlekit/bundlekit/internal/issue"
	"github.com/bundlekit/bundlekit/internal/testutil"
	"github.com/bundlekit/bundlekit/pkg/bundleinput"
	"github.com/bundlekit/bundlekit/pkg/types"
)

// isolated returns LoadOptions that cannot see any real user configuration.
func isolated(t *testing.T) LoadOptions {
	t.Helper()
	return LoadOptions{
		ConfigDirPath: types.FilesystemPath(t.TempDir()),
		BaseDir:       types.FilesystemPath(t.TempDir()),
	}
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	return testutil.WriteFile(t, dir, ConfigFileName+"."+ConfigFileExt, []byte(content))
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.Input.Digest != bundleinput.DigestSHA256 {
		t.Errorf("Input.Digest = %q, want sha256", cfg.Input.Digest)
	}
	if cfg.Input.SkipHidden {
		t.Error("Input.SkipHidden should default to false")
	}
	if cfg.UI.Verbose {
		t.Error("UI.Verbose should default to false")
	}
	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("UI.ColorScheme = %q, want auto", cfg.UI.ColorScheme)
	}
	if valid, errs := cfg.IsValid(); !valid {
		t.Errorf("DefaultConfig() is invalid: %v", errs)
	}
}

func TestConfigDir(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG lookup applies to Linux and other Unix systems")
	}
	Reset()
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error = %v", err)
	}
	if want := filepath.Join(xdg, AppName); dir != want {
		t.Errorf("ConfigDir() = %s, want %s", dir, want)
	}
}

func TestConfigDir_Override(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	got, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error = %v", err)
	}
	if got != dir {
		t.Errorf("ConfigDir() = %s, want %s", got, dir)
	}
	p, err := FilePath()
	if err != nil {
		t.Fatalf("FilePath() error = %v", err)
	}
	if want := filepath.Join(dir, "config.cue"); p != want {
		t.Errorf("FilePath() = %s, want %s", p, want)
	}
}

func TestLoad_DefaultsWhenNoConfigFile(t *testing.T) {
	t.Parallel()

	cfg, path, err := Resolve(context.Background(), isolated(t))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if path != "" {
		t.Errorf("path = %q, want none", path)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("cfg = %+v, want defaults", *cfg)
	}
}

func TestLoad_UserConfigFile(t *testing.T) {
	t.Parallel()

	opts := isolated(t)
	want := writeConfig(t, opts.ConfigDirPath.String(), `
input: digest: "blake3"
ui: {
	color_scheme: "dark"
	verbose:      true
}
`)

	cfg, path, err := Resolve(context.Background(), opts)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if path != want {
		t.Errorf("path = %s, want %s", path, want)
	}
	if cfg.Input.Digest != bundleinput.DigestBLAKE3 {
		t.Errorf("Input.Digest = %q, want blake3", cfg.Input.Digest)
	}
	if cfg.Input.SkipHidden {
		t.Error("unset skip_hidden should keep its default")
	}
	if !cfg.UI.Verbose || cfg.UI.ColorScheme != ColorSchemeDark {
		t.Errorf("UI = %+v", cfg.UI)
	}
}

func TestLoad_BaseDirFallback(t *testing.T) {
	t.Parallel()

	opts := isolated(t)
	want := writeConfig(t, opts.BaseDir.String(), `input: skip_hidden: true`)

	cfg, path, err := Resolve(context.Background(), opts)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if path != want {
		t.Errorf("path = %s, want %s", path, want)
	}
	if !cfg.Input.SkipHidden {
		t.Error("Input.SkipHidden = false, want true")
	}
}

func TestLoad_UserConfigWinsOverBaseDir(t *testing.T) {
	t.Parallel()

	opts := isolated(t)
	user := writeConfig(t, opts.ConfigDirPath.String(), `ui: color_scheme: "light"`)
	writeConfig(t, opts.BaseDir.String(), `ui: color_scheme: "dark"`)

	cfg, path, err := Resolve(context.Background(), opts)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if path != user || cfg.UI.ColorScheme != ColorSchemeLight {
		t.Errorf("loaded %s with scheme %s, want %s with light", path, cfg.UI.ColorScheme, user)
	}
}

func TestLoad_CustomPath(t *testing.T) {
	t.Parallel()

	opts := isolated(t)
	writeConfig(t, opts.ConfigDirPath.String(), `input: digest: "blake3"`)
	custom := filepath.Join(t.TempDir(), "custom.cue")
	if err := os.WriteFile(custom, []byte(`input: digest: "sha256"`), 0o644); err != nil {
		t.Fatal(err)
	}
	opts.ConfigFilePath = types.FilesystemPath(custom)

	cfg, path, err := Resolve(context.Background(), opts)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if path != custom {
		t.Errorf("path = %s, want %s", path, custom)
	}
	if cfg.Input.Digest != bundleinput.DigestSHA256 {
		t.Errorf("custom file should be used exclusively, got digest %q", cfg.Input.Digest)
	}
}

func TestLoad_CustomPathNotFound(t *testing.T) {
	t.Parallel()

	opts := isolated(t)
	missing := filepath.Join(t.TempDir(), "nope.cue")
	opts.ConfigFilePath = types.FilesystemPath(missing)

	_, err := NewProvider().Load(context.Background(), opts)
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("error should be *issue.ActionableError, got %T: %v", err, err)
	}
	if ae.Operation != "load configuration" || ae.Resource != missing {
		t.Errorf("Operation/Resource = %q/%q", ae.Operation, ae.Resource)
	}
	if !ae.HasSuggestions() {
		t.Error("expected suggestions")
	}
}

func TestLoad_InvalidFiles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax error", `input: {`, "config.cue"},
		{"unknown digest", `input: digest: "md5"`, "input.digest"},
		{"wrong type", `input: skip_hidden: "yes"`, "input.skip_hidden"},
		{"unknown field", `output: {}`, "output"},
		{"unknown scheme", `ui: color_scheme: "neon"`, "ui.color_scheme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := isolated(t)
			writeConfig(t, opts.ConfigDirPath.String(), tt.content)

			_, err := NewProvider().Load(context.Background(), opts)
			if err == nil {
				t.Fatal("expected error")
			}
			var ae *issue.ActionableError
			if !errors.As(err, &ae) {
				t.Fatalf("error should be *issue.ActionableError, got %T", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	opts := isolated(t)
	writeConfig(t, opts.ConfigDirPath.String(), `input: digest: "sha256"`)
	t.Setenv("BUNDLEKIT_INPUT_DIGEST", "blake3")
	t.Setenv("BUNDLEKIT_UI_VERBOSE", "true")

	cfg, err := NewProvider().Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Input.Digest != bundleinput.DigestBLAKE3 {
		t.Errorf("Input.Digest = %q, want blake3 from env", cfg.Input.Digest)
	}
	if !cfg.UI.Verbose {
		t.Error("UI.Verbose = false, want true from env")
	}
}

func TestLoad_InvalidEnvOverride(t *testing.T) {
	t.Setenv("BUNDLEKIT_UI_COLOR_SCHEME", "neon")

	_, err := NewProvider().Load(context.Background(), isolated(t))
	if !errors.Is(err, ErrInvalidColorScheme) {
		t.Fatalf("error = %v, want ErrInvalidColorScheme", err)
	}
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("error = %v, want ErrInvalidConfig in chain", err)
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewProvider().Load(ctx, isolated(t))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	t.Parallel()

	want := &Config{
		Input: InputConfig{Digest: bundleinput.DigestBLAKE3, SkipHidden: true},
		UI:    UIConfig{Verbose: true, ColorScheme: ColorSchemeLight},
	}
	opts := isolated(t)
	writeConfig(t, opts.ConfigDirPath.String(), GenerateCUE(want))

	got, err := NewProvider().Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v\n%s", err, GenerateCUE(want))
	}
	if *got != *want {
		t.Errorf("round trip = %+v, want %+v", *got, *want)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", AppName)
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	path, created, err := CreateDefaultConfig()
	if err != nil {
		t.Fatalf("CreateDefaultConfig() error = %v", err)
	}
	if !created {
		t.Error("first call should create the file")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if string(data) != GenerateCUE(DefaultConfig()) {
		t.Errorf("file content = %q", data)
	}

	if _, created, err := CreateDefaultConfig(); err != nil || created {
		t.Errorf("second call created=%v err=%v, want existing file kept", created, err)
	}
}

func TestInputConfig_SourceOptions(t *testing.T) {
	t.Parallel()

	opts := InputConfig{Digest: bundleinput.DigestBLAKE3, SkipHidden: true}.SourceOptions()
	if len(opts) != 2 {
		t.Fatalf("SourceOptions() returned %d options, want 2", len(opts))
	}
}
