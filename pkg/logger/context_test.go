package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestFromContextOr(t *testing.T) {
	fallback := zap.NewNop()
	assert.Same(t, fallback, FromContextOr(context.Background(), fallback))

	scoped := zap.NewExample()
	ctx := WithContext(context.Background(), scoped)
	assert.Same(t, scoped, FromContextOr(ctx, fallback))
}

func TestMiddlewareSharesRequestLogger(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())

	var fromEcho, fromRequest *zap.Logger
	e.GET("/", func(c echo.Context) error {
		fromEcho = FromEcho(c)
		fromRequest = FromContextOr(c.Request().Context(), nil)
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, fromEcho)
	assert.Same(t, fromEcho, fromRequest)
}
