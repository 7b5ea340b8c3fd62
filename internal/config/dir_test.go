package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDir(t *testing.T) {
	t.Run("windows uses working directory", func(t *testing.T) {
		got, err := dir("windows")
		if err != nil {
			t.Fatalf("dir failed: %v", err)
		}
		if got != DirName {
			t.Fatalf("expected %q, got %q", DirName, got)
		}
	})

	t.Run("other platforms use home", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		t.Setenv("USERPROFILE", home)

		got, err := dir("linux")
		if err != nil {
			t.Fatalf("dir failed: %v", err)
		}
		if got != filepath.Join(home, DirName) {
			t.Fatalf("expected %q, got %q", filepath.Join(home, DirName), got)
		}
	})
}

func TestExportServerPath(t *testing.T) {
	t.Setenv(EnvVar, "")

	dir := filepath.Join(t.TempDir(), DirName)

	path, err := ExportServerPath(dir)
	if err != nil {
		t.Fatalf("ExportServerPath failed: %v", err)
	}

	if path != filepath.Join(dir, ServerConfigName) {
		t.Fatalf("expected server config path inside dir, got %q", path)
	}
	if got := os.Getenv(EnvVar); got != path {
		t.Fatalf("expected %s=%q, got %q", EnvVar, path, got)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("expected config dir to exist: %v", err)
	}
	if !info.IsDir() {
		t.Fatal("expected config dir to be a directory")
	}
}
