package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/worldorder/worldorder/pkg/logger"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestRootHandler(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		db         Pinger
		wantStatus int
		wantBody   string
	}{
		{
			name:       "root",
			method:     http.MethodGet,
			path:       "/",
			wantStatus: http.StatusOK,
			wantBody:   `{"service": "worldorder", "status": "running"}`,
		},
		{
			name:       "unknown path",
			method:     http.MethodGet,
			path:       "/admin",
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error": "Not found"}`,
		},
		{
			name:       "health without database",
			method:     http.MethodGet,
			path:       "/healthz",
			wantStatus: http.StatusOK,
			wantBody:   `{"status": "ok", "version": "1.2.3"}`,
		},
		{
			name:       "health with database",
			method:     http.MethodGet,
			path:       "/healthz",
			db:         pingerFunc(func(context.Context) error { return nil }),
			wantStatus: http.StatusOK,
			wantBody:   `{"status": "ok", "version": "1.2.3"}`,
		},
		{
			name:       "health with database down",
			method:     http.MethodGet,
			path:       "/healthz",
			db:         pingerFunc(func(context.Context) error { return errors.New("connection refused") }),
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"status": "unavailable", "version": "1.2.3"}`,
		},
		{
			name:       "health wrong method",
			method:     http.MethodPost,
			path:       "/healthz",
			wantStatus: http.StatusMethodNotAllowed,
			wantBody:   `{"error": "Method not allowed"}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mux := http.NewServeMux()
			NewRootHandler("1.2.3", tc.db, logger.NewTestLogger(t)).RegisterRoutes(mux)

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.JSONEq(t, tc.wantBody, rec.Body.String())
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}
