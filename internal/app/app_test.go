package app

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worldorder/worldorder/config"
	"github.com/worldorder/worldorder/internal/domain/mocks"
	"github.com/worldorder/worldorder/pkg/kv"
	"github.com/worldorder/worldorder/pkg/logger"
)

func createTestConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		Version:     "test",
		Server: config.ServerConfig{
			Host: "127.0.0.1",
			Port: 0,
		},
		Messaging: config.MessagingConfig{
			ChannelSecret:      "channel-secret",
			ChannelAccessToken: "token",
			APIBaseURL:         "http://127.0.0.1:1",
			Timeout:            time.Second,
		},
		Conversation: config.ConversationConfig{
			Timezone:           "Asia/Taipei",
			RateLimitPerMinute: 30,
			VendorFallback:     map[string]string{},
		},
	}
}

// wiredApp runs every Init step except database and tracing against a sqlmock DB
func wiredApp(t *testing.T) (*App, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	app := NewApp(createTestConfig(),
		WithMockDB(db),
		WithMessenger(mocks.NewMockMessenger(ctrl)),
		WithLogger(logger.NewTestLogger(t)),
	).(*App)

	require.NoError(t, app.InitKV())
	require.NoError(t, app.InitMessenger())
	require.NoError(t, app.InitRepositories())
	require.NoError(t, app.InitServices())
	require.NoError(t, app.InitHandlers())
	return app, mock
}

func TestNewApp(t *testing.T) {
	app := NewApp(createTestConfig())

	assert.NotNil(t, app.GetLogger())
	assert.NotNil(t, app.GetMux())
	assert.Nil(t, app.GetDB())
	assert.Equal(t, "test", app.GetConfig().Version)
	assert.False(t, app.IsServerCreated())
}

func TestAppInitKV(t *testing.T) {
	t.Run("memory store without redis address", func(t *testing.T) {
		app := NewApp(createTestConfig(), WithLogger(logger.NewTestLogger(t))).(*App)

		require.NoError(t, app.InitKV())

		assert.NotNil(t, app.memoryKV)
		assert.Nil(t, app.redis)
		require.NoError(t, app.cleanupResources())
	})

	t.Run("injected store is kept", func(t *testing.T) {
		store := kv.NewMemoryKV()
		defer store.Close()
		app := NewApp(createTestConfig(), WithKV(store), WithLogger(logger.NewTestLogger(t))).(*App)

		require.NoError(t, app.InitKV())

		assert.Same(t, store, app.store)
		assert.Nil(t, app.memoryKV)
	})
}

func TestAppInitOrder(t *testing.T) {
	app := NewApp(createTestConfig(), WithLogger(logger.NewTestLogger(t)))

	assert.Error(t, app.InitRepositories())
	assert.Error(t, app.InitServices())
	assert.Error(t, app.InitHandlers())
}

func TestAppRoutes(t *testing.T) {
	app, mock := wiredApp(t)
	assert.NotNil(t, app.GetWorldRepository())
	assert.NotNil(t, app.GetOrderRepository())

	t.Run("health pings the database", func(t *testing.T) {
		mock.ExpectPing()
		rec := httptest.NewRecorder()
		app.GetMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status": "ok", "version": "test"}`, rec.Body.String())
	})

	t.Run("health reports database outage", func(t *testing.T) {
		mock.ExpectPing().WillReturnError(errors.New("connection refused"))
		rec := httptest.NewRecorder()
		app.GetMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("webhook requires a signature", func(t *testing.T) {
		rec := httptest.NewRecorder()
		body := bytes.NewBufferString(`{"events": []}`)
		app.GetMux().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhook", body))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	mock.ExpectClose()
	require.NoError(t, app.Shutdown(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGracefulShutdownMiddleware(t *testing.T) {
	app := NewApp(createTestConfig(), WithLogger(logger.NewTestLogger(t))).(*App)

	release := make(chan struct{})
	entered := make(chan struct{})
	handler := app.gracefulShutdownMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		w.WriteHeader(http.StatusOK)
	}))

	done := make(chan int)
	go func() {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhook", nil))
		done <- rec.Code
	}()

	<-entered
	assert.Equal(t, int64(1), app.GetActiveRequestCount())

	app.shutdownCancel()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhook", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "Server is shutting down")

	close(release)
	assert.Equal(t, http.StatusOK, <-done)
	assert.Equal(t, int64(0), app.GetActiveRequestCount())
}

func TestAppStartAndShutdown(t *testing.T) {
	app := NewApp(createTestConfig(), WithLogger(logger.NewTestLogger(t)))
	app.SetShutdownTimeout(2 * time.Second)

	errCh := make(chan error, 1)
	go func() { errCh <- app.Start() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.True(t, app.WaitForServerStart(ctx))

	require.NoError(t, app.Shutdown(context.Background()))

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, http.ErrServerClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after Shutdown")
	}

	select {
	case <-app.GetShutdownContext().Done():
	default:
		t.Fatal("shutdown context should be cancelled")
	}
}

func TestWaitForServerStartTimesOut(t *testing.T) {
	app := NewApp(createTestConfig(), WithLogger(logger.NewTestLogger(t)))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.False(t, app.WaitForServerStart(ctx))
}
