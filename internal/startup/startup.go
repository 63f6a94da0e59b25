package startup

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"icon-engine/internal/cache"
	"icon-engine/internal/inspect"
	"icon-engine/internal/logging"

	"github.com/gorilla/mux"
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

// RouteInfo contains information about a registered route
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// Config holds all application configuration
type Config struct {
	ThemeDir            string
	CacheMaxEntries     int
	Workers             int
	MetricsPort         string
	MetricsEnabled      bool
	WhitespaceThreshold float64
	DefaultIconSize     int

	// Feature flags based on environment availability
	ThemeEnabled    bool
	DocumentEnabled bool
}

// LoadConfig loads and validates configuration from environment variables
func LoadConfig() (*Config, error) {
	printBanner()
	logSystemInfo()

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	themeDir := getEnv("ICON_THEME_DIR", "")
	cacheMaxEntries := getEnvInt("CACHE_MAX_ENTRIES", cache.DefaultMaxEntries)
	workers := getEnvInt("ICON_WORKERS", 0)
	metricsPort := getEnv("METRICS_PORT", "9090")
	metricsEnabled := getEnvBool("METRICS_ENABLED", true)
	whitespaceThreshold := getEnvFloat("WHITESPACE_THRESHOLD", inspect.DefaultWhitespaceThreshold)
	defaultIconSize := getEnvInt("DEFAULT_ICON_SIZE", 128)

	logging.Info("  ICON_THEME_DIR:        %s", displayValue(themeDir))
	logging.Info("  CACHE_MAX_ENTRIES:     %d", cacheMaxEntries)
	logging.Info("  ICON_WORKERS:          %s", displayWorkers(workers))
	logging.Info("  METRICS_PORT:          %s", metricsPort)
	logging.Info("  METRICS_ENABLED:       %v", metricsEnabled)
	logging.Info("  WHITESPACE_THRESHOLD:  %.2f", whitespaceThreshold)
	logging.Info("  DEFAULT_ICON_SIZE:     %d", defaultIconSize)
	logging.Info("  LOG_LEVEL:             %s", logging.GetLevel())

	if cacheMaxEntries < 1 {
		logging.Warn("  Invalid CACHE_MAX_ENTRIES, using default: %d", cache.DefaultMaxEntries)
		cacheMaxEntries = cache.DefaultMaxEntries
	}
	if whitespaceThreshold <= 0 || whitespaceThreshold >= 1 {
		logging.Warn("  Invalid WHITESPACE_THRESHOLD, using default: %.2f", inspect.DefaultWhitespaceThreshold)
		whitespaceThreshold = inspect.DefaultWhitespaceThreshold
	}
	if defaultIconSize < 16 || defaultIconSize > 1024 {
		logging.Warn("  Invalid DEFAULT_ICON_SIZE, using default: 128")
		defaultIconSize = 128
	}

	config := &Config{
		ThemeDir:            themeDir,
		CacheMaxEntries:     cacheMaxEntries,
		Workers:             workers,
		MetricsPort:         metricsPort,
		MetricsEnabled:      metricsEnabled,
		WhitespaceThreshold: whitespaceThreshold,
		DefaultIconSize:     defaultIconSize,
	}

	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("ICON SOURCE SETUP")
	logging.Info("------------------------------------------------------------")

	if themeDir != "" {
		abs, err := filepath.Abs(themeDir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve theme directory path: %w", err)
		}
		config.ThemeDir = abs
		logging.Info("  Theme directory (absolute): %s", abs)
		config.ThemeEnabled = checkThemeDir(abs)
	} else {
		logging.Info("  No theme directory configured")
		logging.Info("  Native icon tiers limited to direct extraction")
	}

	config.DocumentEnabled = checkPdftoppm() == nil

	logging.Info("")
	logging.Info("  Feature availability:")
	logging.Info("    Category glyphs:  ENABLED (embedded)")
	logging.Info("    Theme icons:      %s", enabledString(config.ThemeEnabled))
	logging.Info("    Document pages:   %s", enabledString(config.DocumentEnabled))
	logging.Info("    Metrics:          %s", enabledString(config.MetricsEnabled))

	return config, nil
}

// checkThemeDir verifies the theme root exists and holds at least one
// size-class directory.
func checkThemeDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		logging.Warn("  Theme directory issue: %v", err)
		logging.Warn("  Theme-backed tiers will be disabled")
		return false
	}
	if !info.IsDir() {
		logging.Warn("  Theme path exists but is not a directory")
		return false
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		logging.Warn("  Cannot read theme directory: %v", err)
		return false
	}
	classes := 0
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := strconv.Atoi(e.Name()); err == nil {
			classes++
		}
	}
	if classes == 0 {
		logging.Warn("  Theme directory has no size-class subdirectories")
		logging.Warn("  Theme-backed tiers will return no results")
	} else {
		logging.Debug("  Theme provides %d size classes", classes)
	}
	return true
}

// checkPdftoppm probes for the external page rasterizer.
func checkPdftoppm() error {
	path, err := exec.LookPath("pdftoppm")
	if err != nil {
		logging.Warn("  pdftoppm not found in PATH")
		logging.Warn("  Document first-page previews will fall through to generic icons")
		return fmt.Errorf("pdftoppm not found in PATH")
	}
	logging.Debug("  pdftoppm path: %s", path)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "pdftoppm", "-v")
	// pdftoppm prints its version to stderr and exits zero.
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("failed to get pdftoppm version: %w", err)
	}

	lines := strings.Split(string(output), "\n")
	if len(lines) > 0 {
		logging.Debug("  pdftoppm version: %s", strings.TrimSpace(lines[0]))
	}

	return nil
}

func enabledString(enabled bool) string {
	if enabled {
		return "ENABLED"
	}
	return "DISABLED"
}

func displayValue(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}

func displayWorkers(n int) string {
	if n <= 0 {
		return "(derived from CPU count)"
	}
	return strconv.Itoa(n)
}

// LogEngineInit logs engine construction
func LogEngineInit(duration time.Duration) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("ENGINE INITIALIZATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  [OK] Engine initialized in %v", duration)
}

// GetRoutes extracts all registered routes from a mux.Router
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return err
		}

		methods, err := route.GetMethods()
		if err != nil {
			// Route might not have methods specified
			methods = []string{"*"}
		}

		name := route.GetName()

		for _, method := range methods {
			routes = append(routes, RouteInfo{
				Method: method,
				Path:   pathTemplate,
				Name:   name,
			})
		}

		return nil
	})

	return routes, err
}

// LogMetricsRoutes logs the metrics listener's registered routes
func LogMetricsRoutes(router *mux.Router) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("METRICS SERVER SETUP")
	logging.Info("------------------------------------------------------------")

	if logging.IsDebugEnabled() {
		routes, err := GetRoutes(router)
		if err != nil {
			logging.Warn("error walking routes: %v", err)
		}

		logging.Debug("  Registered routes (%d total):", len(routes))

		sort.Slice(routes, func(i, j int) bool { return routes[i].Path < routes[j].Path })
		for _, route := range routes {
			logging.Debug("    %-6s %s", route.Method, route.Path)
		}
	}
}

// ServerConfig holds configuration for the startup summary log
type ServerConfig struct {
	MetricsPort     string
	MetricsEnabled  bool
	StartupDuration time.Duration
}

// LogServerStarted logs successful startup with endpoint information
func LogServerStarted(config ServerConfig) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("ENGINE STARTED")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Startup time:  %v", config.StartupDuration)
	if config.MetricsEnabled {
		logging.Info("")
		logging.Info("  Endpoints:")
		logging.Info("    Metrics:     http://localhost:%s/metrics", config.MetricsPort)
		logging.Info("    Health:      http://localhost:%s/health", config.MetricsPort)
	}
	logging.Info("")
	logging.Info("  Press Ctrl+C to stop")
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

// LogShutdownStep logs a shutdown step
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
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
    ____                     ______            _
   /  _/________  ____      / ____/___  ____ _(_)___  ___
   / // ___/ __ \/ __ \    / __/ / __ \/ __ '/ / __ \/ _ \
 _/ // /__/ /_/ / / / /   / /___/ / / / /_/ / / / / /  __/
/___/\___/\____/_/ /_/   /_____/_/ /_/\__, /_/_/ /_/\___/
                                     /____/
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

	if logging.IsDebugEnabled() {
		logging.Debug("  Goroutines:      %d", runtime.NumGoroutine())

		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}

		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:        %s", hostname)
		}
	}

	logging.Info("")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		logging.Warn("Invalid integer value for %s: %q, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		logging.Warn("Invalid float value for %s: %q, using default: %g", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
