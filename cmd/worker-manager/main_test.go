package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financial-clinic-workers/internal/assessment/catalog"
	"financial-clinic-workers/internal/assessment/scoring"
	"financial-clinic-workers/internal/common/database"
	"financial-clinic-workers/internal/models"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestHealthMux(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		pingers        map[string]database.Pinger
		expectedCode   int
		expectedStatus string
	}{
		{"health", "/health", nil, http.StatusOK, "healthy"},
		{"ready", "/ready", map[string]database.Pinger{"redis": stubPinger{}}, http.StatusOK, "ready"},
		{
			name:           "not ready",
			path:           "/ready",
			pingers:        map[string]database.Pinger{"postgres": stubPinger{err: errors.New("connection refused")}},
			expectedCode:   http.StatusServiceUnavailable,
			expectedStatus: "not_ready",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newHealthMux(tt.pingers).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.expectedCode, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.expectedStatus, body["status"])
		})
	}
}

func TestHealthMux_Metrics(t *testing.T) {
	rec := httptest.NewRecorder()
	newHealthMux(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestInitBandSeries(t *testing.T) {
	catalogs, err := catalog.LoadAll()
	require.NoError(t, err)

	initBandSeries(catalogs)

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	series := map[string]float64{}
	for _, mf := range families {
		if mf.GetName() != "assessment_status_band_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			series[labels["variant"]+"/"+labels["band"]] = m.GetCounter().GetValue()
		}
	}

	tests := []struct {
		variant models.Variant
		scheme  scoring.Scheme
	}{
		{models.VariantFinancialClinic, scoring.FinancialClinicOverall},
		{models.VariantLegacy, scoring.LegacyOverall},
	}
	for _, tt := range tests {
		t.Run(string(tt.variant), func(t *testing.T) {
			for _, band := range tt.scheme.Labels() {
				value, ok := series[string(tt.variant)+"/"+band]
				assert.True(t, ok, band)
				assert.Zero(t, value, band)
			}
		})
	}
	assert.Len(t, series, len(scoring.FinancialClinicOverall.Labels())+len(scoring.LegacyOverall.Labels()))
}
