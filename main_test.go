package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"icon-engine/internal/metrics"
	"icon-engine/internal/normalize"
)

func TestSetupMetricsRouter(t *testing.T) {
	metrics.InitializeMetrics()
	router := setupMetricsRouter()

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/metrics", http.StatusOK},
		{"/health", http.StatusOK},
		{"/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != tt.wantStatus {
			t.Errorf("GET %s = %d, want %d", tt.path, rec.Code, tt.wantStatus)
		}
	}
}

func TestMetricsEndpointExportsTierSeries(t *testing.T) {
	metrics.InitializeMetrics()
	router := setupMetricsRouter()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	body := rec.Body.String()
	for _, want := range []string{
		"icon_engine_resolutions_total",
		"icon_engine_cache_hits_total",
		"icon_engine_batch_jobs_total",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %s", want)
		}
	}
}

func TestParseProfile(t *testing.T) {
	orig := flagProfile
	defer func() { flagProfile = orig }()

	flagProfile = "compact"
	if parseProfile() != normalize.ProfileCompact {
		t.Error("compact flag should select the compact profile")
	}
	flagProfile = "dense"
	if parseProfile() != normalize.ProfileDense {
		t.Error("dense flag should select the dense profile")
	}
	flagProfile = "anything-else"
	if parseProfile() != normalize.ProfileDense {
		t.Error("unknown profile should fall back to dense")
	}
}
