package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/2beens/coachlab/internal/assessments"
	"github.com/2beens/coachlab/internal/auth"
	"github.com/2beens/coachlab/internal/calculators"
	"github.com/2beens/coachlab/internal/clients"
	"github.com/2beens/coachlab/internal/config"
	"github.com/2beens/coachlab/internal/db"
	coachlabmcp "github.com/2beens/coachlab/internal/mcp"
	"github.com/2beens/coachlab/internal/middleware"
	"github.com/2beens/coachlab/internal/programs"
	"github.com/2beens/coachlab/internal/telemetry/metrics"
	"github.com/2beens/coachlab/internal/telemetry/tracing"
	"github.com/2beens/coachlab/internal/tenant"
	"github.com/2beens/coachlab/pkg"
)

const (
	cronSecretHeader = "X-Cron-Secret"
	mcpSecretHeader  = "X-MCP-Secret"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string
	cronSecretHash    string // bcrypt hash of the X-Cron-Secret shared with the external scheduler
	mcpSecretHash     string // bcrypt hash of the X-MCP-Secret

	config      *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client
	rateLimiter middleware.RequestRateLimiter

	loginChecker auth.Checker
	tenantRepo   *tenant.Repo

	assessmentsService *assessments.Service
	programsService    *programs.Service
	scheduler          *programs.Scheduler

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	PostgresPassword        string
	RedisPassword           string
	CronSecretHash          string
	McpSecretHash           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         cfg.PostgresUser,
		DBPassword:     params.PostgresPassword,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": cfg.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("coachlab", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})
	if params.HoneycombTracingEnabled {
		rdb.AddHook(redisotel.NewTracingHook())
	}

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "coachlab")
	if err != nil {
		return nil, err
	}

	assessmentsService := assessments.NewService(
		assessments.NewRepo(dbPool),
		cfg.AnalysisCacheSizeMB,
		cfg.AnalysisCacheExpirySeconds,
		metricsManager,
	)
	programsService := programs.NewService(
		programs.NewRepo(dbPool),
		metricsManager,
		cfg.WorkoutsLookAheadDays,
		cfg.WorkoutsAdvanceBatchSize,
	)

	var scheduler *programs.Scheduler
	if cfg.WorkoutsCronEnabled {
		scheduler, err = programs.NewScheduler(cfg.WorkoutsCronSpec, programsService, time.Minute)
		if err != nil {
			return nil, fmt.Errorf("workouts scheduler: %w", err)
		}
	}

	if params.CronSecretHash == "" {
		log.Warnf("cron secret hash not set, %s endpoints will reject all requests", cronSecretHeader)
	}

	return &Server{
		config:         cfg,
		versionInfo:    params.VersionInfo,
		cronSecretHash: params.CronSecretHash,
		mcpSecretHash:  params.McpSecretHash,

		dbPool:      dbPool,
		redisClient: rdb,
		rateLimiter: redis_rate.NewLimiter(rdb),

		loginChecker: auth.NewLoginChecker(time.Duration(cfg.SessionTTLHours)*time.Hour, rdb),
		tenantRepo:   tenant.NewRepo(dbPool),

		assessmentsService: assessmentsService,
		programsService:    programsService,
		scheduler:          scheduler,

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("coachlab-router"))

	r.HandleFunc("/healthz", s.handleHealth).Methods("GET").Name("healthz")
	r.HandleFunc("/version", s.handleVersion).Methods("GET").Name("version")

	programsHandler := programs.NewHandler(s.programsService)

	api := r.PathPrefix("/api").Subrouter()

	// cron first, "cron" would otherwise be taken for a business slug
	cron := api.PathPrefix("/cron").Subrouter()
	cron.Use(middleware.RequireSecret(cronSecretHeader, s.cronSecretHash))
	cron.Use(middleware.RateLimit(s.rateLimiter, s.metricsManager, "cron", s.config.CronRateLimitPerMin))
	cron.HandleFunc("/workouts/advance", programsHandler.HandleAdvance).Methods("POST", "OPTIONS").Name("cron-workouts-advance")

	business := api.PathPrefix("/{business}").Subrouter()
	business.Use(middleware.TenantCheck(s.tenantRepo))

	// calculators are read-only for the data, every member may use them
	calculatorsHandler := calculators.NewHandler(s.metricsManager)
	calc := business.PathPrefix("/calculators").Subrouter()
	calc.Use(middleware.RateLimit(s.rateLimiter, s.metricsManager, "calculators", s.config.CalculatorsRateLimitPerMin))
	calc.HandleFunc("/vdot", calculatorsHandler.HandleVDOT).Methods("POST", "OPTIONS")
	calc.HandleFunc("/one-rep-max", calculatorsHandler.HandleOneRepMax).Methods("POST", "OPTIONS")
	calc.HandleFunc("/velocity-zones", calculatorsHandler.HandleVelocityZones).Methods("POST", "OPTIONS")
	calc.HandleFunc("/load-velocity", calculatorsHandler.HandleLoadVelocity).Methods("POST", "OPTIONS")
	calc.HandleFunc("/hyrox", calculatorsHandler.HandleHyrox).Methods("POST", "OPTIONS")
	calc.HandleFunc("/thresholds", calculatorsHandler.HandleThresholds).Methods("POST", "OPTIONS")

	// preview computes on posted stages without touching stored data, athletes may use it too
	assessmentsHandler := assessments.NewHandler(s.assessmentsService)
	previewRateLimit := middleware.RateLimit(s.rateLimiter, s.metricsManager, "preview", s.config.CalculatorsRateLimitPerMin)
	business.Handle(
		"/assessments/preview-analysis",
		previewRateLimit(http.HandlerFunc(assessmentsHandler.HandlePreviewAnalysis)),
	).Methods("POST", "OPTIONS").Name("preview-analysis")

	data := business.NewRoute().Subrouter()
	data.Use(middleware.WriteAccess())

	clientsHandler := clients.NewHandler(clients.NewRepo(s.dbPool))
	data.HandleFunc("/clients", clientsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-clients")
	data.HandleFunc("/clients", clientsHandler.HandleCreate).Methods("POST", "OPTIONS").Name("new-client")
	data.HandleFunc("/clients/{id}", clientsHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-client")
	data.HandleFunc("/clients/{id}", clientsHandler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-client")
	data.HandleFunc("/clients/{id}", clientsHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("remove-client")

	data.HandleFunc("/assessments", assessmentsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-assessments")
	data.HandleFunc("/assessments", assessmentsHandler.HandleCreate).Methods("POST", "OPTIONS").Name("new-assessment")
	data.HandleFunc("/assessments/{id}", assessmentsHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-assessment")
	data.HandleFunc("/assessments/{id}", assessmentsHandler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-assessment")
	data.HandleFunc("/assessments/{id}", assessmentsHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("remove-assessment")
	data.HandleFunc("/assessments/{id}/analysis", assessmentsHandler.HandleAnalysis).Methods("GET", "OPTIONS").Name("assessment-analysis")
	data.HandleFunc("/assessments/{id}/report.xlsx", assessmentsHandler.HandleReport).Methods("GET", "OPTIONS").Name("assessment-report")

	data.HandleFunc("/programs", programsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-programs")
	data.HandleFunc("/programs", programsHandler.HandleCreate).Methods("POST", "OPTIONS").Name("new-program")
	data.HandleFunc("/programs/{id}", programsHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-program")
	data.HandleFunc("/programs/{id}", programsHandler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-program")
	data.HandleFunc("/programs/{id}", programsHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("remove-program")
	data.HandleFunc("/programs/{id}/calendar.ics", programsHandler.HandleCalendar).Methods("GET", "OPTIONS").Name("program-calendar")
	data.HandleFunc("/programs/{id}/workouts", programsHandler.HandleAddWorkout).Methods("POST", "OPTIONS").Name("new-workout")
	data.HandleFunc("/programs/{id}/workouts/{workoutId}", programsHandler.HandleSetWorkoutStatus).Methods("PATCH", "OPTIONS").Name("workout-status")
	data.HandleFunc("/programs/{id}/workouts/{workoutId}", programsHandler.HandleDeleteWorkout).Methods("DELETE", "OPTIONS").Name("remove-workout")

	if s.config.McpEnabled {
		mcpServer := coachlabmcp.NewServer(coachlabmcp.NewToolService(s.assessmentsService, s.tenantRepo))
		r.PathPrefix("/mcp").Handler(
			middleware.RequireSecret(mcpSecretHeader, s.mcpSecretHash)(coachlabmcp.NewHTTPHandler(mcpServer)),
		).Name("mcp")
	}

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(middleware.NewAuthMiddlewareHandler(s.loginChecker).AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if s.dbPool == nil {
		http.Error(w, "db not configured", http.StatusServiceUnavailable)
		return
	}
	if err := s.dbPool.Ping(ctx); err != nil {
		log.Errorf("health check, ping db: %s", err)
		http.Error(w, "db unavailable", http.StatusServiceUnavailable)
		return
	}
	pkg.WriteTextResponseOK(w, "ok")
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, s.versionInfo)
}

func (s *Server) Serve(host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
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

	if s.scheduler != nil {
		s.scheduler.Start()
	}

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	if s.scheduler != nil {
		s.scheduler.Stop()
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	// stop taking requests before the pools go away
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

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
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
