package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"video-vault/internal/logging"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// CacheDirName is the hidden directory created inside the video root to
// hold the index database and generated thumbnails. Discovery skips it.
const CacheDirName = ".video-vault"

// ThumbRelDir is the thumbnail directory relative to the cache directory.
const ThumbRelDir = "thumbs"

// Config holds all application configuration
type Config struct {
	VideoDir        string
	Port            string
	SmartThumbnails bool

	// Derived paths
	CacheDir     string
	ThumbDir     string
	DatabasePath string
}

// LoadConfig loads and validates configuration from environment variables.
// VIDEO_DIR is required and must point at an existing directory; anything
// else is a fatal misconfiguration for the caller to act on.
func LoadConfig() (*Config, error) {
	printBanner()
	logSystemInfo()

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	videoDir := os.Getenv("VIDEO_DIR")
	port := getEnv("PORT", "8080")
	smartThumbs := getEnvBool("SMART_THUMBNAILS", true)

	logging.Info("  VIDEO_DIR:        %s", videoDir)
	logging.Info("  PORT:             %s", port)
	logging.Info("  SMART_THUMBNAILS: %v", smartThumbs)
	logging.Info("  LOG_LEVEL:        %s", logging.GetLevel())

	if videoDir == "" {
		return nil, fmt.Errorf("VIDEO_DIR must be set")
	}

	videoDir, err := filepath.Abs(videoDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve video directory path: %w", err)
	}

	info, err := os.Stat(videoDir)
	if err != nil {
		return nil, fmt.Errorf("video directory %s is not accessible: %w", videoDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("video directory %s is not a directory", videoDir)
	}

	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("DIRECTORY SETUP")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Video directory (absolute): %s", videoDir)

	config := &Config{
		VideoDir:        videoDir,
		Port:            port,
		SmartThumbnails: smartThumbs,
		CacheDir:        filepath.Join(videoDir, CacheDirName),
		ThumbDir:        filepath.Join(videoDir, CacheDirName, ThumbRelDir),
		DatabasePath:    filepath.Join(videoDir, CacheDirName, "index.db"),
	}

	if err := os.MkdirAll(config.ThumbDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	logging.Info("  Cache directory: %s", config.CacheDir)

	if err := testWriteAccess(config.CacheDir); err != nil {
		return nil, fmt.Errorf("cache directory is not writable: %w", err)
	}
	logging.Info("  [OK] Cache directory is writable")

	return config, nil
}

// LogDatabaseInit logs database initialization
func LogDatabaseInit(duration time.Duration) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("DATABASE INITIALIZATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  [OK] Database initialized in %v", duration)
}

// LogIndexerInit logs indexer initialization
func LogIndexerInit(poolSize int) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("INDEXER INITIALIZATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Worker pool size: %d", poolSize)
	logging.Info("  Indexing runs on first request (POST /api/reindex to force)")
}

// ServerConfig holds configuration for the server startup log
type ServerConfig struct {
	Port            string
	StartupDuration time.Duration
}

// LogServerStarted logs successful server start with endpoint information
func LogServerStarted(config ServerConfig) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SERVER STARTED")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Startup time: %v", config.StartupDuration)
	logging.Info("")
	logging.Info("  Endpoints:")
	logging.Info("    Application: http://localhost:%s", config.Port)
	logging.Info("    Metrics:     http://localhost:%s/metrics", config.Port)
	logging.Info("")
	logging.Info("  Press Ctrl+C to stop the server")
	logging.Info("------------------------------------------------------------")
	logging.Info("")
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SHUTDOWN INITIATED (received %s)", signal)
	logging.Info("------------------------------------------------------------")
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

// Helper functions

func printBanner() {
	banner := `
------------------------------------------------------------
 _    ___     __             _    __            ____
| |  / (_)___/ /__  ____    | |  / /___ ___  __/ / /_
| | / / / __  / _ \/ __ \   | | / / __ '/ / / / / __/
| |/ / / /_/ /  __/ /_/ /   | |/ / /_/ / /_/ / / /_
|___/_/\__,_/\___/\____/    |___/\__,_/\__,_/_/\__/

------------------------------------------------------------`
	fmt.Println(banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	logging.Info("------------------------------------------------------------")
	logging.Info("SYSTEM INFORMATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		logging.Info("  (Container CPU limit detected)")
	}

	logging.Info("")
}

func testWriteAccess(dir string) error {
	testFile := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return err
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("failed to remove write test file %s: %v", testFile, err)
		// Write access was confirmed regardless
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean for %s: %q, using default %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
