package controller_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/boi-gordo/backend/internal/integration/entrypoint/controller"
)

func checkHealth(t *testing.T, probes ...controller.HealthProbe) (int, controller.HealthResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/health", controller.NewHealthController(probes...).Check)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body controller.HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}
	return w.Code, body
}

func TestHealthController_Check(t *testing.T) {
	up := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	t.Run("all probes up", func(t *testing.T) {
		code, body := checkHealth(t,
			controller.HealthProbe{Name: "database", Required: true, Check: up},
			controller.HealthProbe{Name: "report_cache", Check: up},
		)
		if code != http.StatusOK {
			t.Errorf("expected 200, got %d", code)
		}
		if body.Status != "ok" {
			t.Errorf("expected status ok, got %s", body.Status)
		}
		if body.Components["report_cache"] != "up" {
			t.Errorf("expected report_cache up, got %s", body.Components["report_cache"])
		}
	})

	t.Run("optional probe down degrades", func(t *testing.T) {
		code, body := checkHealth(t,
			controller.HealthProbe{Name: "database", Required: true, Check: up},
			controller.HealthProbe{Name: "report_cache", Check: down},
		)
		if code != http.StatusOK {
			t.Errorf("expected 200, got %d", code)
		}
		if body.Status != "degraded" {
			t.Errorf("expected status degraded, got %s", body.Status)
		}
		if body.Components["report_cache"] != "down" {
			t.Errorf("expected report_cache down, got %s", body.Components["report_cache"])
		}
	})

	t.Run("required probe down is unavailable", func(t *testing.T) {
		code, body := checkHealth(t,
			controller.HealthProbe{Name: "database", Required: true, Check: down},
			controller.HealthProbe{Name: "report_cache", Check: down},
		)
		if code != http.StatusServiceUnavailable {
			t.Errorf("expected 503, got %d", code)
		}
		if body.Status != "unavailable" {
			t.Errorf("expected status unavailable, got %s", body.Status)
		}
	})
}
