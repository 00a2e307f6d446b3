package lxc

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "container.conf")
	if err := os.WriteFile(path, []byte("lxc.uts.name = test\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestStartCommand(t *testing.T) {
	configPath := writeConfig(t)
	rt := DefaultRuntime()

	req, err := rt.Start("web", configPath)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if req.Path != "lxc-start" {
		t.Errorf("Path = %q, want lxc-start", req.Path)
	}
	want := []string{"-f", configPath, "-n", "web", "-F"}
	if !reflect.DeepEqual(req.Args, want) {
		t.Errorf("Args = %v, want %v", req.Args, want)
	}
}

func TestStartValidation(t *testing.T) {
	configPath := writeConfig(t)

	tests := []struct {
		name       string
		runtime    Runtime
		container  string
		configPath string
	}{
		{"empty name", DefaultRuntime(), "", configPath},
		{"name with slash", DefaultRuntime(), "a/b", configPath},
		{"name with space", DefaultRuntime(), "a b", configPath},
		{"empty config path", DefaultRuntime(), "web", ""},
		{"missing config file", DefaultRuntime(), "web", "/nonexistent/c.conf"},
		{"no start binary", Runtime{}, "web", configPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.runtime.Start(tt.container, tt.configPath); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestStopCommand(t *testing.T) {
	rt := DefaultRuntime()

	req, err := rt.Stop("web", 0)
	if err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if req.Path != "lxc-stop" {
		t.Errorf("Path = %q, want lxc-stop", req.Path)
	}
	want := []string{"-n", "web"}
	if !reflect.DeepEqual(req.Args, want) {
		t.Errorf("Args = %v, want %v", req.Args, want)
	}

	req, err = rt.Stop("web", 30*time.Second)
	if err != nil {
		t.Fatalf("Stop with timeout failed: %v", err)
	}
	want = []string{"-n", "web", "-t", "30"}
	if !reflect.DeepEqual(req.Args, want) {
		t.Errorf("Args = %v, want %v", req.Args, want)
	}
}

func TestStopValidation(t *testing.T) {
	if _, err := DefaultRuntime().Stop("", 0); err == nil {
		t.Error("Stop with empty name should fail")
	}
	if _, err := (Runtime{}).Stop("web", 0); err == nil {
		t.Error("Stop without binary should fail")
	}
}
