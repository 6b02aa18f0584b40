// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dashboard.yaml")
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Theme != "auto" {
		t.Fatalf("default theme = %q, want auto", cfg.Theme)
	}
	if len(cfg.Services) == 0 {
		t.Fatal("default config has no services")
	}
	if got := cfg.tickInterval(); got != 0 {
		t.Fatalf("default tick interval = %v, want 0 (app default)", got)
	}
}

func TestLoadConfigMergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
theme: light
tick_interval: 100ms
services:
  - name: solo
    region: eu-west
    state: up
    replicas: 1
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Theme != "light" {
		t.Fatalf("theme = %q, want light", cfg.Theme)
	}
	if got := cfg.tickInterval(); got != 100*time.Millisecond {
		t.Fatalf("tick interval = %v, want 100ms", got)
	}
	if len(cfg.Services) != 1 || cfg.Services[0].Name != "solo" {
		t.Fatalf("services = %+v, want the file's single entry", cfg.Services)
	}
}

func TestLoadConfigPartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "theme: dark\n")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Theme != "dark" {
		t.Fatalf("theme = %q, want dark", cfg.Theme)
	}
	if len(cfg.Services) == 0 {
		t.Fatal("absent services field dropped the default fleet")
	}
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	cases := []struct {
		name    string
		source  string
		wantErr string
	}{
		{"unknown theme", "theme: solarized\n", "unknown theme"},
		{"bad duration", "tick_interval: fast\n", "tick_interval"},
		{"zero duration", "tick_interval: 0s\n", "must be positive"},
		{"nameless service", "services:\n  - region: eu-west\n", "name is required"},
		{"negative replicas", "services:\n  - name: x\n    replicas: -1\n", "replicas"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.source)
			_, err := LoadConfig(path)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
