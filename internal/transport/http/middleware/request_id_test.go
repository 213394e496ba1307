package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/barisuyucak/nobetpazari/internal/infra/logger"
)

func newRequestIDRouter(captured *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/ping", func(c *gin.Context) {
		if id, ok := c.Request.Context().Value(logger.RequestIDKey{}).(string); ok {
			*captured = id
		}
		c.Status(http.StatusOK)
	})
	return router
}

func TestRequestIDEchoesClientValue(t *testing.T) {
	var captured string
	router := newRequestIDRouter(&captured)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "client-req-42")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if got := rr.Header().Get(requestIDHeader); got != "client-req-42" {
		t.Fatalf("expected client id echoed, got %q", got)
	}
	if captured != "client-req-42" {
		t.Fatalf("expected client id on the request context, got %q", captured)
	}
}

func TestRequestIDReplacesOversizedValue(t *testing.T) {
	var captured string
	router := newRequestIDRouter(&captured)

	oversized := strings.Repeat("x", maxRequestIDLen+1)
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, oversized)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	got := rr.Header().Get(requestIDHeader)
	if got == oversized || got == "" {
		t.Fatalf("expected a minted id in place of the oversized value, got %q", got)
	}
	if captured != got {
		t.Fatalf("expected header and context ids to match, got %q and %q", got, captured)
	}
}
