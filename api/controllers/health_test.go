package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sortezap/sortezap-backend/pkg/config"
	"github.com/sortezap/sortezap-backend/pkg/lirapay"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(ctx context.Context) error { return s.err }

type stubAccounts struct{ err error }

func (s stubAccounts) AccountInfo(ctx context.Context) (*lirapay.AccountInfo, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &lirapay.AccountInfo{Name: "Sorteza"}, nil
}

func testConfig(secret string) *config.Config {
	return &config.Config{
		App:     config.AppConfig{Env: "dev", Port: "8080"},
		LiraPay: config.LiraPayConfig{APISecret: secret},
	}
}

func TestHealthLive(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthLive(testConfig(""))(rec, httptest.NewRequest("GET", "/health/live", nil))

	if rec.Code != 200 {
		t.Fatalf("status: %d", rec.Code)
	}
	if env := rec.Header().Get("X-SorteZap-Env"); env != "dev" {
		t.Fatalf("env header: %s", env)
	}
}

func TestHealthReadyAllConfigured(t *testing.T) {
	rec := httptest.NewRecorder()
	handler := HealthReady(testConfig("secret"), nil, stubPinger{}, stubAccounts{})
	handler(rec, httptest.NewRequest("GET", "/health/ready", nil))

	if rec.Code != 200 {
		t.Fatalf("status: %d", rec.Code)
	}
	data := decodeData(t, rec.Body.Bytes())
	if data["redis"] != "ok" || data["lirapay"] != "ok" {
		t.Fatalf("checks: %#v", data)
	}
}

func TestHealthReadyUnconfiguredDependencies(t *testing.T) {
	rec := httptest.NewRecorder()
	handler := HealthReady(testConfig(""), nil, nil, stubAccounts{})
	handler(rec, httptest.NewRequest("GET", "/health/ready", nil))

	if rec.Code != 200 {
		t.Fatalf("status: %d", rec.Code)
	}
	data := decodeData(t, rec.Body.Bytes())
	if data["redis"] != "unconfigured" || data["lirapay"] != "unconfigured" {
		t.Fatalf("checks: %#v", data)
	}
}

func TestHealthReadyRedisDown(t *testing.T) {
	rec := httptest.NewRecorder()
	handler := HealthReady(testConfig(""), nil, stubPinger{err: errors.New("connection refused")}, nil)
	handler(rec, httptest.NewRequest("GET", "/health/ready", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status: %d", rec.Code)
	}
}

func TestHealthReadyGatewayDown(t *testing.T) {
	rec := httptest.NewRecorder()
	handler := HealthReady(testConfig("secret"), nil, stubPinger{}, stubAccounts{err: errors.New("timeout")})
	handler(rec, httptest.NewRequest("GET", "/health/ready", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status: %d", rec.Code)
	}
}
