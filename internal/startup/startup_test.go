package startup

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()

	if info.Version == "" {
		t.Error("Expected Version to be set")
	}
	if info.GoVersion == "" {
		t.Error("Expected GoVersion to be set")
	}
	if info.OS == "" {
		t.Error("Expected OS to be set")
	}
	if info.Arch == "" {
		t.Error("Expected Arch to be set")
	}
}

func TestLoadConfigRequiresVideoDir(t *testing.T) {
	t.Setenv("VIDEO_DIR", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("LoadConfig() succeeded with empty VIDEO_DIR")
	}
}

func TestLoadConfigRejectsMissingDir(t *testing.T) {
	t.Setenv("VIDEO_DIR", filepath.Join(t.TempDir(), "does-not-exist"))

	if _, err := LoadConfig(); err == nil {
		t.Fatal("LoadConfig() succeeded with nonexistent VIDEO_DIR")
	}
}

func TestLoadConfigRejectsFileAsVideoDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "notadir")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("VIDEO_DIR", file)

	if _, err := LoadConfig(); err == nil {
		t.Fatal("LoadConfig() succeeded with a file as VIDEO_DIR")
	}
}

func TestLoadConfigCreatesCacheLayout(t *testing.T) {
	root := t.TempDir()
	t.Setenv("VIDEO_DIR", root)
	t.Setenv("PORT", "9999")
	t.Setenv("SMART_THUMBNAILS", "false")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Port != "9999" {
		t.Errorf("Port = %q, want 9999", cfg.Port)
	}
	if cfg.SmartThumbnails {
		t.Error("SmartThumbnails = true, want false")
	}
	if cfg.CacheDir != filepath.Join(root, CacheDirName) {
		t.Errorf("CacheDir = %q", cfg.CacheDir)
	}
	if cfg.DatabasePath != filepath.Join(root, CacheDirName, "index.db") {
		t.Errorf("DatabasePath = %q", cfg.DatabasePath)
	}

	info, err := os.Stat(cfg.ThumbDir)
	if err != nil || !info.IsDir() {
		t.Errorf("thumbnail directory not created: %v", err)
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value string
		def   bool
		want  bool
	}{
		{"true", false, true},
		{"false", true, false},
		{"1", false, true},
		{"0", true, false},
		{"garbage", true, true},
		{"garbage", false, false},
	}

	for _, tt := range tests {
		t.Setenv("TEST_BOOL_VAR", tt.value)
		if got := getEnvBool("TEST_BOOL_VAR", tt.def); got != tt.want {
			t.Errorf("getEnvBool(%q, %v) = %v, want %v", tt.value, tt.def, got, tt.want)
		}
	}

	os.Unsetenv("TEST_BOOL_VAR")
	if got := getEnvBool("TEST_BOOL_VAR", true); !got {
		t.Error("getEnvBool() with unset var should return default")
	}
}
