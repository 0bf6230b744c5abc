package snap

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/frost-depth-service/internal/domain"
	"github.com/couchcryptid/frost-depth-service/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	contentTypeCSV    = "text/csv"
	headerContentType = "Content-Type"

	temperatureCSV = `"Mean annual temperature (deg C) for 64.84, -147.72"
"Source: SNAP Data API"
""
model,scenario,year,tas
NCAR-CCSM4,rcp85,2040,-1.0
NCAR-CCSM4,rcp85,2041,-2.0
NCAR-CCSM4,rcp45,2040,5.0
GFDL-CM3,rcp85,2040,3.0
`

	freezingCSV = `"Freezing index (deg F days) for 64.84, -147.72"
"Source: SNAP Data API"
""
model,year,dd
GFDL-CM3,2040,4000
GFDL-CM3,2041,4101
NCAR-CCSM4,2040,3000
`
)

var (
	testTempQuery = domain.TemperatureQuery{
		Lat: 64.84, Lon: -147.72, Model: "NCAR-CCSM4", Scenario: "rcp85", YearStart: 2040, YearEnd: 2069,
	}
	testIndexQuery = domain.IndexQuery{
		Lat: 64.84, Lon: -147.72, Model: "GFDL-CM3", YearStart: 2040, YearEnd: 2069,
	}
)

func testClient(baseURL string) *Client {
	return NewClient(baseURL+"/", 5*time.Second, observability.NewMetricsForTesting(),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func csvServer(t *testing.T, wantPath, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, wantPath, r.URL.Path)
		assert.Equal(t, "csv", r.URL.Query().Get("format"))
		w.Header().Set(headerContentType, contentTypeCSV)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_MeanAnnualTemperature(t *testing.T) {
	srv := csvServer(t, "/temperature/64.84/-147.72/2040/2069", temperatureCSV)
	c := testClient(srv.URL)

	mat, err := c.MeanAnnualTemperature(context.Background(), testTempQuery)
	require.NoError(t, err)
	// mean(-1, -2) = -1.5 °C = 29.3 °F
	assert.InDelta(t, 29.3, mat, 1e-9)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.ClimateRequests.WithLabelValues(seriesTemperature, "success")))
}

func TestClient_FreezingIndex(t *testing.T) {
	srv := csvServer(t, "/degree_days/freezing_index/64.84/-147.72/2040/2069", freezingCSV)
	c := testClient(srv.URL)

	fi, err := c.FreezingIndex(context.Background(), testIndexQuery)
	require.NoError(t, err)
	// mean(4000, 4101) = 4050.5, rounded half to even.
	assert.Equal(t, 4050, fi)
}

func TestClient_ThawingIndex(t *testing.T) {
	body := "model,year,dd\nNCAR-CCSM4,2040,2100\nNCAR-CCSM4,2041,2200\n"
	srv := csvServer(t, "/degree_days/thawing_index/64.84/-147.72/2040/2069", body)
	c := testClient(srv.URL)

	q := testIndexQuery
	q.Model = "NCAR-CCSM4"
	ti, err := c.ThawingIndex(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, 2150, ti)
}

func TestClient_MissingScenario(t *testing.T) {
	srv := csvServer(t, "/temperature/64.84/-147.72/2040/2069", temperatureCSV)
	c := testClient(srv.URL)

	q := testTempQuery
	q.Scenario = "rcp60"
	_, err := c.MeanAnnualTemperature(context.Background(), q)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSeriesNotFound))
	assert.Contains(t, err.Error(), "scenario=rcp60")
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.ClimateRequests.WithLabelValues(seriesTemperature, "error")))
}

func TestClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"point out of range"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.FreezingIndex(context.Background(), testIndexQuery)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestClient_MalformedResponses(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"no header", "Freezing index\nnothing useful here\n", "no header"},
		{"bad value", "model,year,dd\nGFDL-CM3,2040,lots\n", `dd value "lots"`},
		{"empty body", "", "no header"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := testClient(srv.URL).FreezingIndex(context.Background(), testIndexQuery)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestClient_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(freezingCSV))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testClient(srv.URL).FreezingIndex(ctx, testIndexQuery)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestParseSeries_MissingFilterColumn(t *testing.T) {
	_, err := parseSeries(
		stringsReader("model,year,tas\nGFDL-CM3,2040,1\n"),
		"tas",
		map[string]string{"model": "GFDL-CM3", "scenario": "rcp85"},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing "scenario" column`)
}
