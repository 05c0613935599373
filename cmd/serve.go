package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/looksmaxxer/internal/ai"
	"github.com/kozaktomas/looksmaxxer/internal/config"
	"github.com/kozaktomas/looksmaxxer/internal/constants"
	"github.com/kozaktomas/looksmaxxer/internal/logging"
	"github.com/kozaktomas/looksmaxxer/internal/session"
	"github.com/kozaktomas/looksmaxxer/internal/snapshot"
	"github.com/kozaktomas/looksmaxxer/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start the LooksMaxxer API server.
The camera client posts photos and landmarks to it for frame try-on,
face shape analysis and colour analysis.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 3001, "Port to listen on")
	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to")
	serveCmd.Flags().String("session-secret", "", "Secret for signing session cookies")
	serveCmd.Flags().Bool("secure-cookies", false, "Mark session cookies Secure (behind HTTPS)")
}

// resolveServeHostPort resolves port and host from flags and environment variables.
func resolveServeHostPort(cmd *cobra.Command) (int, string, string) {
	port := mustGetInt(cmd, "port")
	host := mustGetString(cmd, "host")
	sessionSecret := mustGetString(cmd, "session-secret")

	if sessionSecret == "" {
		sessionSecret = os.Getenv("WEB_SESSION_SECRET")
	}
	if envPort := os.Getenv("WEB_PORT"); envPort != "" && !cmd.Flags().Changed("port") {
		if p, err := strconv.Atoi(envPort); err == nil {
			port = p
		}
	}
	if envHost := os.Getenv("WEB_HOST"); envHost != "" && !cmd.Flags().Changed("host") {
		host = envHost
	}
	return port, host, sessionSecret
}

// buildDependencies wires everything the handlers need. The returned closer
// releases external connections.
func buildDependencies(ctx context.Context, cfg *config.Config, sessionSecret string) (web.Dependencies, func(), error) {
	var deps web.Dependencies
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	thresholds, err := loadThresholds(cfg)
	if err != nil {
		return deps, nil, err
	}
	frames, err := loadCatalog(cfg)
	if err != nil {
		return deps, nil, err
	}
	detector, err := newDetector(cfg)
	if err != nil {
		return deps, nil, err
	}
	if c, ok := detector.(interface{ Close() }); ok {
		closers = append(closers, c.Close)
	}

	store, closeStore, err := openSessionStore(ctx, cfg)
	if err != nil {
		closeAll()
		return deps, nil, err
	}
	closers = append(closers, func() {
		if err := closeStore(); err != nil {
			logging.Warn(logging.Fields{"error": err.Error()}, "failed to close session store")
		}
	})

	archive, err := snapshot.New(&cfg.S3)
	if err != nil {
		closeAll()
		return deps, nil, fmt.Errorf("creating snapshot archive: %w", err)
	}
	if archive.Enabled() {
		logging.Info(logging.Fields{"bucket": cfg.S3.Bucket}, "snapshot archive enabled (S3)")
	}

	deps = web.Dependencies{
		Sessions:   session.NewManager(store, sessionSecret, cfg.Session.TTL),
		Detector:   detector,
		Catalog:    frames,
		Thresholds: thresholds,
		Archive:    archive,
		Providers:  ai.NewRegistry(cfg),
	}
	return deps, closeAll, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	port, host, sessionSecret := resolveServeHostPort(cmd)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deps, closeDeps, err := buildDependencies(ctx, cfg, sessionSecret)
	if err != nil {
		return err
	}
	defer closeDeps()
	deps.Sessions.SetSecureCookies(mustGetBool(cmd, "secure-cookies"))

	cleanupDone := deps.Sessions.StartCleanup(ctx, constants.SessionCleanupInterval)

	server := web.NewServer(cfg, port, host, deps)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		logging.Info(nil, "shutting down")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logging.Error(logging.Fields{"error": err.Error()}, "error during shutdown")
		}
	}()

	fmt.Printf("Starting LooksMaxxer on http://%s:%d\n", host, port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}

	cancel()
	<-cleanupDone
	return nil
}
