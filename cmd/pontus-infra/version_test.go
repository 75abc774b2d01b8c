package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestGetVersion(t *testing.T) {
	version := getVersion()

	if version == "" {
		t.Error("getVersion() returned empty string")
	}

	// Tests run from source, so only "dev" or an ldflags/module semver is expected.
	if version != "dev" && !strings.HasPrefix(version, "v") {
		t.Errorf("getVersion() = %q, want 'dev' or 'vX.Y.Z'", version)
	}
}

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := newVersionCmd()
	cmd.SetOut(&out)
	cmd.SetArgs(nil)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.HasPrefix(out.String(), "pontus-infra ") {
		t.Errorf("output = %q, want 'pontus-infra <version>'", out.String())
	}
}

func TestGetVersionPrefersStampedVersion(t *testing.T) {
	old := version
	version = "v9.9.9"
	t.Cleanup(func() { version = old })

	if got := getVersion(); got != "v9.9.9" {
		t.Errorf("getVersion() = %q, want 'v9.9.9'", got)
	}
}
