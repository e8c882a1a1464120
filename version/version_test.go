package version

import (
	"strings"
	"testing"
)

func saveAndRestore() func() {
	v, c, b := Version, GitCommit, BuildTime
	return func() {
		Version, GitCommit, BuildTime = v, c, b
	}
}

func TestGetUsesLinkerValues(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.0.0"
	GitCommit = "abc1234def"
	BuildTime = "2026-01-15T10:30:00Z"

	info := Get()
	if info.Version != "1.0.0" {
		t.Errorf("Version = %q, want 1.0.0", info.Version)
	}
	if info.GitCommit != "abc1234" {
		t.Errorf("GitCommit = %q, want it shortened to abc1234", info.GitCommit)
	}
	if info.BuildTime != "2026-01-15T10:30:00Z" {
		t.Errorf("BuildTime = %q", info.BuildTime)
	}
}

func TestGetDefaults(t *testing.T) {
	defer saveAndRestore()()
	Version = "dev"

	if info := Get(); info.Version != "dev" {
		t.Errorf("Version = %q, want dev", info.Version)
	}
}

func TestInfoString(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{"bare", Info{Version: "dev"}, "dev"},
		{"commit", Info{Version: "1.0.0", GitCommit: "abc1234"}, "1.0.0 (abc1234)"},
		{"dirty", Info{Version: "1.0.0", GitCommit: "abc1234", Dirty: true}, "1.0.0 (abc1234-dirty)"},
		{
			"full",
			Info{Version: "1.0.0", GitCommit: "abc1234", BuildTime: "2026-01-15T10:30:00Z", GoVersion: "go1.26.0"},
			"1.0.0 (abc1234, built 2026-01-15T10:30:00Z, go1.26.0)",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.info.String(); got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestString(t *testing.T) {
	defer saveAndRestore()()
	Version = "2.0.0"
	if !strings.HasPrefix(String(), "2.0.0") {
		t.Errorf("String() = %q, want prefix 2.0.0", String())
	}
}
