// SPDX-License-Identifier: MPL-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	t.Cleanup(Reset)
	Reset()

	cfg := Get()

	if cfg.Path == "" {
		t.Error("Path is empty")
	}
	if cfg.Address != DefaultAddress {
		t.Errorf("Address = %q, want %q", cfg.Address, DefaultAddress)
	}
	if cfg.Workers != DefaultWorkers {
		t.Errorf("Workers = %d, want %d", cfg.Workers, DefaultWorkers)
	}
	if cfg.Shell.Virtual {
		t.Error("Shell.Virtual = true, want false by default")
	}
}

func TestGetCaches(t *testing.T) {
	t.Cleanup(Reset)
	Reset()

	if Get() != Get() {
		t.Error("Get() returned different instances")
	}
}

func TestConfigFileOverride(t *testing.T) {
	t.Cleanup(Reset)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "path: /books\naddress: 0.0.0.0:9000\nworkers: 8\nshell:\n  virtual: true\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	SetConfigFilePathOverride(path)

	cfg := Get()

	if cfg.Path != "/books" {
		t.Errorf("Path = %q, want /books", cfg.Path)
	}
	if cfg.Address != "0.0.0.0:9000" {
		t.Errorf("Address = %q, want 0.0.0.0:9000", cfg.Address)
	}
	if cfg.Workers != 8 {
		t.Errorf("Workers = %d, want 8", cfg.Workers)
	}
	if !cfg.Shell.Virtual {
		t.Error("Shell.Virtual = false, want true")
	}
}

func TestPartialConfigKeepsDefaults(t *testing.T) {
	t.Cleanup(Reset)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("workers: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	SetConfigFilePathOverride(path)

	cfg := Get()

	if cfg.Workers != 2 {
		t.Errorf("Workers = %d, want 2", cfg.Workers)
	}
	if cfg.Address != DefaultAddress {
		t.Errorf("Address = %q, want default %q", cfg.Address, DefaultAddress)
	}
}

func TestMalformedConfigFallsBackToDefaults(t *testing.T) {
	t.Cleanup(Reset)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(":\n  - not yaml at all ["), 0o644); err != nil {
		t.Fatal(err)
	}
	SetConfigFilePathOverride(path)

	cfg := Get()

	if cfg.Address != DefaultAddress {
		t.Errorf("Address = %q, want default after load failure", cfg.Address)
	}
}

func TestEnvPathOverride(t *testing.T) {
	t.Cleanup(Reset)
	Reset()
	t.Setenv(EnvPath, "/env/books")

	cfg := Get()

	if cfg.Path != "/env/books" {
		t.Errorf("Path = %q, want /env/books", cfg.Path)
	}
}
