package main

import (
	"context"
	"fmt"
	"image/png"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"icon-engine/internal/batch"
	"icon-engine/internal/engine"
	"icon-engine/internal/logging"
	"icon-engine/internal/memory"
	"icon-engine/internal/metrics"
	"icon-engine/internal/normalize"
	"icon-engine/internal/render"
	"icon-engine/internal/startup"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var (
	flagSize    int
	flagProfile string
	flagOut     string
	flagOutDir  string
)

func main() {
	root := &cobra.Command{
		Use:   "icon-engine",
		Short: "Icon and preview resolution engine for file listings",
		Long: `icon-engine resolves filesystem paths to thumbnail images through a
tiered fallback pipeline: type-specific renderers, native icon sources,
and embedded category glyphs. Results are normalized to an exact size
and cached in memory.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().IntVar(&flagSize, "size", 0, "icon size in pixels (default from DEFAULT_ICON_SIZE)")
	root.PersistentFlags().StringVar(&flagProfile, "profile", "dense", "visual profile: dense or compact")

	resolveCmd := &cobra.Command{
		Use:   "resolve <path>",
		Short: "Resolve one path to a PNG icon",
		Args:  cobra.ExactArgs(1),
		RunE:  runResolve,
	}
	resolveCmd.Flags().StringVarP(&flagOut, "out", "o", "", "output PNG file (default <path>.icon.png)")

	batchCmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Resolve every entry of a directory listing",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().StringVar(&flagOutDir, "out-dir", "", "directory for output PNGs (default: dry run)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run as a long-lived service with a metrics endpoint",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(*cobra.Command, []string) {
			info := startup.GetBuildInfo()
			fmt.Printf("icon-engine %s (commit %s, built %s, %s %s/%s)\n",
				info.Version, info.Commit, info.BuildTime, info.GoVersion, info.OS, info.Arch)
		},
	}

	root.AddCommand(resolveCmd, batchCmd, serveCmd, versionCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration and builds a wired engine. The caller
// owns the returned engine and must Close it. gate may be nil.
func setup(gate batch.Gate) (*engine.Engine, *startup.Config, error) {
	config, err := startup.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	render.InitVips()

	engStart := time.Now()
	eng := engine.New(engine.Options{
		ThemeDir:            config.ThemeDir,
		CacheMaxEntries:     config.CacheMaxEntries,
		Workers:             config.Workers,
		Gate:                gate,
		WhitespaceThreshold: config.WhitespaceThreshold,
	})
	startup.LogEngineInit(time.Since(engStart))

	return eng, config, nil
}

func parseProfile() normalize.Profile {
	if flagProfile == "compact" {
		return normalize.ProfileCompact
	}
	return normalize.ProfileDense
}

func iconSize(config *startup.Config) int {
	if flagSize > 0 {
		return flagSize
	}
	return config.DefaultIconSize
}

func runResolve(_ *cobra.Command, args []string) error {
	memory.ConfigureFromEnv()
	eng, config, err := setup(nil)
	if err != nil {
		return err
	}
	defer eng.Close()
	defer render.ShutdownVips()

	path := args[0]
	size := iconSize(config)

	img := eng.ResolveIcon(path, size, size, parseProfile())

	out := flagOut
	if out == "" {
		out = path + ".icon.png"
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode icon: %w", err)
	}
	logging.Info("Wrote %dx%d icon to %s", size, size, out)
	return nil
}

func runBatch(_ *cobra.Command, args []string) error {
	memory.ConfigureFromEnv()
	eng, config, err := setup(nil)
	if err != nil {
		return err
	}
	defer eng.Close()
	defer render.ShutdownVips()

	dir := args[0]
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		logging.Info("Directory is empty, nothing to resolve")
		return nil
	}

	size := iconSize(config)
	done := make(chan []batch.Result, 1)

	job := eng.SubmitBatch(paths, size, size, parseProfile(),
		func(completed, total int) {
			logging.Debug("batch progress: %d/%d", completed, total)
		},
		func(results []batch.Result) {
			done <- results
		})
	logging.Info("Submitted batch job %s: %d paths at %dx%d", job.ID, len(paths), size, size)

	results := <-done
	job.Wait()

	if flagOutDir == "" {
		logging.Info("Resolved %d/%d icons (dry run, pass --out-dir to write PNGs)", len(results), len(paths))
		return nil
	}

	if err := os.MkdirAll(flagOutDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	for _, r := range results {
		out := filepath.Join(flagOutDir, filepath.Base(r.Path)+".icon.png")
		f, err := os.Create(out)
		if err != nil {
			logging.Warn("Skipping %s: %v", out, err)
			continue
		}
		if err := png.Encode(f, r.Image); err != nil {
			logging.Warn("Failed to encode %s: %v", out, err)
		}
		f.Close()
	}
	logging.Info("Wrote %d icons to %s", len(results), flagOutDir)
	return nil
}

func runServe(_ *cobra.Command, _ []string) error {
	startTime := time.Now()

	// GOMEMLIMIT must be in place before the monitor reads it.
	memory.ConfigureFromEnv()
	monitor := memory.NewMonitor(memory.DefaultConfig())

	eng, config, err := setup(monitor)
	if err != nil {
		return err
	}
	defer eng.Close()
	defer render.ShutdownVips()

	metrics.InitializeMetrics()

	collector := metrics.NewCollector(eng.Cache(), time.Minute)
	collector.Start()

	monitor.Start()

	var srv *http.Server
	if config.MetricsEnabled {
		router := setupMetricsRouter()
		startup.LogMetricsRoutes(router)

		srv = &http.Server{
			Addr:         ":" + config.MetricsPort,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != http.ErrServerClosed {
				startup.LogFatal("Metrics server error: %v", err)
			}
		}()
	}

	startup.LogServerStarted(startup.ServerConfig{
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	startup.LogShutdownStep("Cancelling batch work")
	eng.Close()
	startup.LogShutdownStepComplete("Batch work stopped")

	startup.LogShutdownStep("Stopping metrics collector")
	collector.Stop()
	monitor.Stop()
	startup.LogShutdownStepComplete("Collectors stopped")

	if srv != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		if err := srv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	startup.LogShutdownComplete()
	return nil
}

func setupMetricsRouter() *mux.Router {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler()).Methods("GET").Name("Metrics")
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	}).Methods("GET").Name("Health")
	return r
}
