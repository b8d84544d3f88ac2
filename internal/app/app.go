package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"contrib.go.opencensus.io/integrations/ocsql"
	"github.com/go-redis/redis/v8"

	"github.com/worldorder/worldorder/config"
	"github.com/worldorder/worldorder/internal/command"
	"github.com/worldorder/worldorder/internal/database"
	"github.com/worldorder/worldorder/internal/domain"
	httpHandler "github.com/worldorder/worldorder/internal/http"
	"github.com/worldorder/worldorder/internal/http/middleware"
	"github.com/worldorder/worldorder/internal/repository"
	"github.com/worldorder/worldorder/internal/service"
	"github.com/worldorder/worldorder/pkg/kv"
	"github.com/worldorder/worldorder/pkg/logger"
	"github.com/worldorder/worldorder/pkg/messaging"
	"github.com/worldorder/worldorder/pkg/ratelimiter"
	"github.com/worldorder/worldorder/pkg/tracing"
)

// AppInterface defines the interface for the App
type AppInterface interface {
	Initialize() error
	Start() error
	Shutdown(ctx context.Context) error

	GetConfig() *config.Config
	GetLogger() logger.Logger
	GetMux() *http.ServeMux
	GetDB() *sql.DB
	GetWorldRepository() domain.WorldRepository
	GetOrderRepository() domain.OrderRepository

	IsServerCreated() bool
	WaitForServerStart(ctx context.Context) bool

	InitTracing() error
	InitDB() error
	InitKV() error
	InitMessenger() error
	InitRepositories() error
	InitServices() error
	InitHandlers() error

	SetShutdownTimeout(timeout time.Duration)
	GetActiveRequestCount() int64
	GetShutdownContext() context.Context
}

// App owns the process-wide dependencies of the webhook server
type App struct {
	config      *config.Config
	logger      logger.Logger
	db          *sql.DB
	stopDBStats func()

	store    kv.KV
	redis    *redis.Client
	memoryKV *kv.MemoryKV
	limiter  *ratelimiter.Limiter

	messenger domain.Messenger

	worldRepo domain.WorldRepository
	orderRepo domain.OrderRepository

	worldService        *service.WorldService
	ledgerService       *service.LedgerService
	profileDirectory    *service.ProfileDirectory
	conversationService *service.ConversationService

	mux    *http.ServeMux
	server *http.Server

	serverMu      sync.RWMutex
	serverStarted chan struct{}

	shutdownCtx     context.Context
	shutdownCancel  context.CancelFunc
	activeRequests  int64
	requestWg       sync.WaitGroup
	shutdownTimeout time.Duration
}

type AppOption func(*App)

// WithMockDB skips InitDB and uses db instead
func WithMockDB(db *sql.DB) AppOption {
	return func(a *App) {
		a.db = db
	}
}

// WithMessenger replaces the messaging API client
func WithMessenger(m domain.Messenger) AppOption {
	return func(a *App) {
		a.messenger = m
	}
}

// WithKV replaces the conversation key/value store
func WithKV(store kv.KV) AppOption {
	return func(a *App) {
		a.store = store
	}
}

func WithLogger(logger logger.Logger) AppOption {
	return func(a *App) {
		a.logger = logger
	}
}

func NewApp(cfg *config.Config, opts ...AppOption) AppInterface {
	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())

	app := &App{
		config:          cfg,
		logger:          logger.NewLoggerWithLevel(cfg.LogLevel),
		mux:             http.NewServeMux(),
		serverStarted:   make(chan struct{}),
		shutdownCtx:     shutdownCtx,
		shutdownCancel:  shutdownCancel,
		shutdownTimeout: 30 * time.Second,
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

// InitTracing initializes OpenCensus exporters and views
func (a *App) InitTracing() error {
	tracingConfig := &a.config.Tracing

	if err := tracing.InitTracing(tracingConfig); err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	if tracingConfig.Enabled {
		a.logger.WithField("trace_exporter", tracingConfig.TraceExporter).
			WithField("metrics_exporter", tracingConfig.MetricsExporter).
			WithField("sampling_rate", tracingConfig.SamplingProbability).
			Info("Tracing initialized successfully")
	}

	return nil
}

// InitDB connects to PostgreSQL, creating the database and schema when missing
func (a *App) InitDB() error {
	if a.db != nil {
		return nil
	}

	dbConfig := &a.config.Database
	a.logger.WithField("host", dbConfig.Host).
		WithField("port", dbConfig.Port).
		WithField("dbname", dbConfig.DBName).
		WithField("sslmode", dbConfig.SSLMode).
		Info("Connecting to database")

	if err := database.EnsureDatabaseExists(dbConfig); err != nil {
		return fmt.Errorf("failed to ensure database exists: %w", err)
	}

	driverName := "postgres"
	if a.config.Tracing.Enabled {
		var err error
		driverName, err = ocsql.Register(driverName, ocsql.WithAllTraceOptions())
		if err != nil {
			return fmt.Errorf("failed to register opencensus sql driver: %w", err)
		}
	}

	db, err := sql.Open(driverName, database.GetSystemDSN(dbConfig))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if err := database.InitializeDatabase(db); err != nil {
		db.Close()
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}

	database.ConfigurePool(db)

	if a.config.Tracing.Enabled {
		a.stopDBStats = ocsql.RecordStats(db, 10*time.Second)
	}

	a.db = db
	return nil
}

// InitKV selects Redis when an address is configured and the in-process store otherwise
func (a *App) InitKV() error {
	if a.store != nil {
		return nil
	}

	if addr := a.config.Redis.Addr; addr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		client, err := kv.NewRedisClient(ctx, addr, a.config.Redis.Password, a.config.Redis.DB)
		if err != nil {
			return fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
		}
		a.redis = client
		a.store = kv.NewRedisKV(client)
		a.logger.WithField("addr", addr).Info("Using Redis for conversation state")
		return nil
	}

	a.memoryKV = kv.NewMemoryKV()
	a.store = a.memoryKV
	a.logger.Info("REDIS_ADDR not set, using in-process conversation state")
	return nil
}

// InitMessenger builds the messaging API client unless one was injected
func (a *App) InitMessenger() error {
	if a.messenger != nil {
		return nil
	}

	if a.config.Messaging.ChannelAccessToken == "" {
		a.logger.Warn("LINE_CHANNEL_ACCESS_TOKEN is empty, replies will be rejected by the platform")
	}

	a.messenger = messaging.NewClient(messaging.Options{
		BaseURL:     a.config.Messaging.APIBaseURL,
		AccessToken: a.config.Messaging.ChannelAccessToken,
		Timeout:     a.config.Messaging.Timeout,
	})
	return nil
}

func (a *App) InitRepositories() error {
	if a.db == nil {
		return fmt.Errorf("database is not initialized")
	}

	a.worldRepo = repository.NewWorldRepository(a.db)
	a.orderRepo = repository.NewOrderRepository(a.db)
	return nil
}

func (a *App) InitServices() error {
	if a.worldRepo == nil || a.orderRepo == nil {
		return fmt.Errorf("repositories are not initialized")
	}
	if a.store == nil || a.messenger == nil {
		return fmt.Errorf("kv store and messenger must be initialized before services")
	}

	a.worldService = service.NewWorldService(a.worldRepo, a.logger)
	a.ledgerService = service.NewLedgerService(a.orderRepo, a.config.Location(), a.logger)
	a.profileDirectory = service.NewProfileDirectory(a.messenger, a.logger)

	a.limiter = ratelimiter.New()
	a.conversationService = service.NewConversationService(
		a.worldService,
		a.ledgerService,
		a.messenger,
		a.profileDirectory,
		a.store,
		a.limiter,
		service.ConversationConfig{
			Keywords:           command.DefaultKeywords(),
			VendorFallback:     a.config.Conversation.VendorFallback,
			RateLimitPerMinute: a.config.Conversation.RateLimitPerMinute,
		},
		a.logger,
	)
	return nil
}

func (a *App) InitHandlers() error {
	if a.conversationService == nil {
		return fmt.Errorf("services are not initialized")
	}

	if a.config.Messaging.ChannelSecret == "" {
		a.logger.Warn("LINE_CHANNEL_SECRET is empty, every webhook call will be rejected")
	}

	// a nil *sql.DB must not become a non-nil Pinger
	var pinger httpHandler.Pinger
	if a.db != nil {
		pinger = a.db
	}

	httpHandler.NewWebhookHandler(a.conversationService, a.config.Messaging.ChannelSecret, a.logger).RegisterRoutes(a.mux)
	httpHandler.NewRootHandler(a.config.Version, pinger, a.logger).RegisterRoutes(a.mux)
	return nil
}

// Initialize runs every Init step in dependency order
func (a *App) Initialize() error {
	a.logger.WithField("version", a.config.Version).Info("Starting worldorder")

	steps := []struct {
		name string
		fn   func() error
	}{
		{"tracing", a.InitTracing},
		{"database", a.InitDB},
		{"kv", a.InitKV},
		{"messenger", a.InitMessenger},
		{"repositories", a.InitRepositories},
		{"services", a.InitServices},
		{"handlers", a.InitHandlers},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			a.logger.WithField("step", step.name).WithField("error", err.Error()).Error("Initialization failed")
			return err
		}
	}

	a.logger.Info("Application successfully initialized")
	return nil
}

// Start serves the mux until Shutdown is called
func (a *App) Start() error {
	var handler http.Handler = a.mux
	handler = a.gracefulShutdownMiddleware(handler)
	if a.config.Tracing.Enabled {
		handler = middleware.TracingMiddleware(handler)
	}

	addr := fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port)

	a.serverMu.Lock()
	if a.serverStarted != nil {
		close(a.serverStarted)
	}
	a.serverStarted = make(chan struct{})
	a.server = &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serverStarted := a.serverStarted
	a.serverMu.Unlock()

	close(serverStarted)

	a.logger.WithField("address", addr).Info("Server starting")

	if a.config.Server.SSL.Enabled {
		a.logger.WithField("cert_file", a.config.Server.SSL.CertFile).Info("SSL enabled")
		return a.server.ListenAndServeTLS(a.config.Server.SSL.CertFile, a.config.Server.SSL.KeyFile)
	}
	return a.server.ListenAndServe()
}

// Shutdown stops accepting requests, waits for in-flight webhooks and releases resources
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Starting graceful shutdown...")
	a.shutdownCancel()

	a.serverMu.RLock()
	server := a.server
	a.serverMu.RUnlock()

	if server == nil {
		return a.cleanupResources()
	}

	a.logger.WithField("active_requests", a.GetActiveRequestCount()).Info("Active requests at shutdown start")

	timeout := a.shutdownTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout < 0 {
		timeout = 0
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var shutdownErr error
	if err := server.Shutdown(shutdownCtx); err != nil {
		shutdownErr = fmt.Errorf("http server shutdown: %w", err)
	}

	requestsDone := make(chan struct{})
	go func() {
		a.requestWg.Wait()
		close(requestsDone)
	}()

	select {
	case <-requestsDone:
		a.logger.Info("All requests completed")
	case <-shutdownCtx.Done():
		a.logger.WithField("active_requests", a.GetActiveRequestCount()).Warn("Shutdown timeout reached with requests still active")
		if shutdownErr == nil {
			shutdownErr = fmt.Errorf("shutdown timeout exceeded")
		}
	}

	if err := a.cleanupResources(); err != nil && shutdownErr == nil {
		shutdownErr = err
	}

	if shutdownErr != nil {
		a.logger.WithField("error", shutdownErr.Error()).Error("Graceful shutdown completed with errors")
	} else {
		a.logger.Info("Graceful shutdown completed successfully")
	}
	return shutdownErr
}

func (a *App) cleanupResources() error {
	if a.stopDBStats != nil {
		a.stopDBStats()
	}
	if a.limiter != nil {
		a.limiter.Stop()
	}
	if a.memoryKV != nil {
		a.memoryKV.Close()
	}

	var firstErr error
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.WithField("error", err.Error()).Error("Error closing redis connection")
			firstErr = err
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.WithField("error", err.Error()).Error("Error closing database connection")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (a *App) IsServerCreated() bool {
	a.serverMu.RLock()
	defer a.serverMu.RUnlock()
	return a.server != nil
}

// WaitForServerStart reports whether Start created the server before ctx expired
func (a *App) WaitForServerStart(ctx context.Context) bool {
	a.serverMu.RLock()
	started := a.serverStarted
	a.serverMu.RUnlock()

	if started == nil {
		<-ctx.Done()
		return false
	}

	select {
	case <-started:
		return a.IsServerCreated()
	case <-ctx.Done():
		return false
	}
}

func (a *App) GetConfig() *config.Config { return a.config }
func (a *App) GetLogger() logger.Logger { return a.logger }
func (a *App) GetMux() *http.ServeMux { return a.mux }
func (a *App) GetDB() *sql.DB { return a.db }
func (a *App) GetWorldRepository() domain.WorldRepository { return a.worldRepo }
func (a *App) GetOrderRepository() domain.OrderRepository { return a.orderRepo }
func (a *App) GetActiveRequestCount() int64 { return atomic.LoadInt64(&a.activeRequests) }
func (a *App) GetShutdownContext() context.Context { return a.shutdownCtx }

func (a *App) SetShutdownTimeout(timeout time.Duration) {
	a.shutdownTimeout = timeout
}

func (a *App) isShuttingDown() bool {
	select {
	case <-a.shutdownCtx.Done():
		return true
	default:
		return false
	}
}

// gracefulShutdownMiddleware counts in-flight requests and refuses new ones once shutdown began
func (a *App) gracefulShutdownMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.isShuttingDown() {
			httpHandler.WriteJSONError(w, "Server is shutting down", http.StatusServiceUnavailable)
			return
		}

		atomic.AddInt64(&a.activeRequests, 1)
		a.requestWg.Add(1)
		defer func() {
			atomic.AddInt64(&a.activeRequests, -1)
			a.requestWg.Done()
		}()

		next.ServeHTTP(w, r)
	})
}

var _ AppInterface = (*App)(nil)
