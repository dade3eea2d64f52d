package tracing

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func tracedRouter() (*gin.Engine, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	r := gin.New()
	r.Use(GinMiddleware(tp))
	r.GET("/api/lessons/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/broken", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	return r, recorder
}

func get(r *gin.Engine, path string) {
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
}

func attr(span sdktrace.ReadOnlySpan, key attribute.Key) attribute.Value {
	for _, kv := range span.Attributes() {
		if kv.Key == key {
			return kv.Value
		}
	}
	return attribute.Value{}
}

func TestGinMiddleware_NamesSpanAfterRoute(t *testing.T) {
	r, recorder := tracedRouter()
	get(r, "/api/lessons/42")

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("recorded %d spans, want 1", len(spans))
	}
	if spans[0].Name() != "GET /api/lessons/:id" {
		t.Errorf("span name = %q", spans[0].Name())
	}
	if got := attr(spans[0], "http.status_code").AsInt64(); got != http.StatusOK {
		t.Errorf("http.status_code = %d", got)
	}
	if spans[0].Status().Code == codes.Error {
		t.Error("successful request marked as error")
	}
}

func TestGinMiddleware_ServerErrorStatus(t *testing.T) {
	r, recorder := tracedRouter()
	get(r, "/api/broken")

	spans := recorder.Ended()
	if len(spans) != 1 || spans[0].Status().Code != codes.Error {
		t.Fatalf("spans = %v, want one error span", spans)
	}
}

func TestGinMiddleware_SkipsInfrastructureRoutes(t *testing.T) {
	r, recorder := tracedRouter()
	get(r, "/api/health")

	if n := len(recorder.Ended()); n != 0 {
		t.Errorf("health check produced %d spans", n)
	}
}
