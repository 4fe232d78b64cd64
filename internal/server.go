package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gorilla/mux"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/2beens/fitcoach/internal/auth"
	"github.com/2beens/fitcoach/internal/backup"
	"github.com/2beens/fitcoach/internal/config"
	"github.com/2beens/fitcoach/internal/datastore"
	"github.com/2beens/fitcoach/internal/estimator"
	fitnessmcp "github.com/2beens/fitcoach/internal/fitness/mcp"
	"github.com/2beens/fitcoach/internal/middleware"
	"github.com/2beens/fitcoach/internal/misc"
	"github.com/2beens/fitcoach/internal/telemetry/metrics"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"
	"github.com/2beens/fitcoach/internal/workflows"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	store       *datastore.FileStore
	authService *auth.Service
	dispatcher  *workflows.Dispatcher
	estimator   *estimator.GeminiClient
	backups     *backup.Service
	rateLimiter *middleware.KeyedRateLimiter

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	AdminPasswordHash       string
	GeminiAPIKey            string
	GithubToken             string
	DriveCredentialsFile    string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	promRegistry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager("fitcoach", cfg.MetricsSubsystem, promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "fitcoach-service")
	if err != nil {
		return nil, err
	}

	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   time.Minute,
	}

	store := datastore.NewFileStore(cfg.DataFilePath)
	if _, err := store.Load(ctx); err != nil {
		// a corrupt data file is never overwritten, refuse to start instead
		return nil, fmt.Errorf("load data file: %w", err)
	}

	if params.AdminPasswordHash == "" {
		log.Errorln("admin password hash not set, login is disabled")
	}
	authService := auth.NewService(params.AdminPasswordHash, cfg.SessionTTL())

	geminiClient := estimator.NewGeminiClient(
		params.GeminiAPIKey,
		cfg.GeminiBaseURL,
		cfg.GeminiModel,
		tracedHttpClient,
	)
	if !geminiClient.Available() {
		log.Warnln("gemini API key not set, meal photo estimation is disabled")
	}

	backups, err := setupBackups(ctx, params, tracedHttpClient, metricsManager)
	if err != nil {
		return nil, err
	}

	return &Server{
		versionInfo: params.VersionInfo,
		config:      cfg,
		store:       store,
		authService: authService,
		dispatcher:  workflows.NewDispatcher(store, metricsManager),
		estimator:   geminiClient,
		backups:     backups,
		rateLimiter: middleware.NewKeyedRateLimiter(),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func setupBackups(
	ctx context.Context,
	params NewServerParams,
	httpClient *http.Client,
	metricsManager *metrics.Manager,
) (*backup.Service, error) {
	cfg := params.Config
	fileName := filepath.Base(cfg.DataFilePath)

	var uploaders []backup.Uploader
	if owner, repo, ok := cfg.GithubBackupOwnerRepo(); ok && params.GithubToken != "" {
		log.Debugf("github backup enabled: %s/%s@%s", owner, repo, cfg.GithubBackupBranch)
		uploaders = append(uploaders, backup.NewGithubUploader(
			httpClient, params.GithubToken, owner, repo, cfg.GithubBackupBranch,
		))
	} else if cfg.GithubBackupRepo != "" {
		log.Warnf("github backup repo [%s] set, but token missing or repo malformed", cfg.GithubBackupRepo)
	}

	if params.DriveCredentialsFile != "" {
		credentials, err := os.ReadFile(params.DriveCredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read drive credentials: %w", err)
		}
		driveUploader, err := backup.NewDriveUploader(ctx, credentials, cfg.DriveBackupFolder)
		if err != nil {
			return nil, fmt.Errorf("drive backup: %w", err)
		}
		log.Debugf("google drive backup enabled, folder: %s", cfg.DriveBackupFolder)
		uploaders = append(uploaders, driveUploader)
	}

	if len(uploaders) == 0 {
		log.Warnln("no backup target configured")
	}

	return backup.NewService(fileName, metricsManager, uploaders...), nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	miscHandler := misc.NewHandler(s.versionInfo, s.authService, s.metricsManager)
	miscHandler.SetupRoutes(r, s.rateLimiter)

	workflowsHandler := workflows.NewHandler(s.dispatcher, s.estimator, s.metricsManager)
	workflowsHandler.SetupRoutes(r)

	backupHandler := backup.NewHandler(s.dispatcher, s.backups)
	backupHandler.SetupRoutes(r)

	mcpServer := fitnessmcp.NewServer(s.store, s.versionInfo)
	mcpHandler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return mcpServer
	}, nil)
	r.Handle("/mcp", mcpHandler).Name("mcp")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.authService)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins...))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest(middleware.DefaultMaxDrain))

	return r
}

func (s *Server) Serve(host string, port int) {
	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      s.routerSetup(),
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
		s.promRegistry,
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
	))
	metricsAddr := net.JoinHostPort(s.config.MetricsHost, strconv.Itoa(s.config.MetricsPort))
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
