package middleware

import (
	"context"
	"net/http"

	"go.opencensus.io/plugin/ochttp"
	"go.opencensus.io/trace"

	"github.com/worldorder/worldorder/pkg/messaging"
)

// TracingMiddleware opens an OpenCensus span per request and marks 4xx/5xx responses
func TracingMiddleware(next http.Handler) http.Handler {
	handler := &ochttp.Handler{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if span := trace.FromContext(ctx); span != nil {
				span.AddAttributes(
					trace.StringAttribute("http.host", r.Host),
					trace.StringAttribute("http.user_agent", r.UserAgent()),
					trace.StringAttribute("http.method", r.Method),
					trace.StringAttribute("http.path", r.URL.Path),
					trace.BoolAttribute("webhook.signed", r.Header.Get(messaging.SignatureHeader) != ""),
				)
				if requestID := r.Header.Get("X-Request-ID"); requestID != "" {
					span.AddAttributes(trace.StringAttribute("http.request_id", requestID))
				}
			}
			next.ServeHTTP(&statusRecorder{ResponseWriter: w, ctx: ctx}, r)
		}),
		FormatSpanName: func(r *http.Request) string {
			return r.Method + " " + r.URL.Path
		},
		IsPublicEndpoint: true,
	}
	return handler
}

// statusRecorder copies the response status onto the request span
type statusRecorder struct {
	http.ResponseWriter
	ctx    context.Context
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	if span := trace.FromContext(sr.ctx); span != nil {
		span.AddAttributes(trace.Int64Attribute("http.status_code", int64(code)))
		if code >= 400 {
			span.SetStatus(trace.Status{Code: trace.StatusCodeUnknown, Message: http.StatusText(code)})
		}
	}
	sr.ResponseWriter.WriteHeader(code)
}

var _ http.ResponseWriter = (*statusRecorder)(nil)
