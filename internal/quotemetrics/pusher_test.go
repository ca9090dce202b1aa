package quotemetrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/snappy"
	"github.com/ifgsrl/gestionale/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/prometheus/prompb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seededRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	rec := NewRecorder(registry)
	rec.PositionPriced("insert")
	rec.ReferenceRows("price_list", 4)
	return registry
}

func TestRemoteWritePusher(t *testing.T) {
	var got prompb.WriteRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "snappy", r.Header.Get("Content-Encoding"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		raw, err := snappy.Decode(nil, body)
		require.NoError(t, err)
		require.NoError(t, got.Unmarshal(raw))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	p := NewRemoteWritePusher(srv.URL, "secret", Target{Job: "gestionale", Environment: "test", Machine: "3"})
	p.now = func() time.Time { return time.UnixMilli(1700000000000) }
	require.NoError(t, p.Push(context.Background(), seededRegistry()))

	names := map[string]float64{}
	for _, ts := range got.Timeseries {
		labels := map[string]string{}
		for _, l := range ts.Labels {
			labels[l.Name] = l.Value
		}
		names[labels["__name__"]] = ts.Samples[0].Value
		assert.Equal(t, "gestionale", labels["job"])
		assert.Equal(t, "test", labels["environment"])
		assert.Equal(t, "3", labels["machine"])
		assert.EqualValues(t, 1700000000000, ts.Samples[0].Timestamp)
	}
	assert.Equal(t, 1.0, names["gestionale_positions_priced_total"])
	assert.Equal(t, 4.0, names["gestionale_reference_rows"])
}

func TestRemoteWritePusher_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	err := NewRemoteWritePusher(srv.URL, "", Target{}).Push(context.Background(), seededRegistry())
	assert.Error(t, err)
}

func TestPushgatewayPusher(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewPushgatewayPusher(srv.URL, Target{Job: "gestionale", Environment: "test", Machine: "1"})
	require.NoError(t, p.Push(context.Background(), seededRegistry()))
	assert.Equal(t, "/metrics/job/gestionale/environment/test/machine/1", path)

	assert.Error(t, NewPushgatewayPusher(srv.URL, Target{}).Push(context.Background(), seededRegistry()))
	assert.ErrorIs(t, NewPushgatewayPusher(" ", Target{Job: "x"}).Push(context.Background(), seededRegistry()), errNoEndpoint)
}

func TestNewPusher(t *testing.T) {
	log := zap.NewNop()

	assert.Nil(t, NewPusher(config.Config{}, log))

	cfg := config.Config{AppName: "gestionale", Metrics: config.MetricsConfig{Enabled: true, Exporter: ExporterPushgateway}}
	assert.Nil(t, NewPusher(cfg, log))

	cfg.Metrics.Endpoint = "http://localhost:9091"
	assert.IsType(t, &PushgatewayPusher{}, NewPusher(cfg, log))

	cfg.Metrics.Exporter = ExporterRemoteWrite
	assert.IsType(t, &RemoteWritePusher{}, NewPusher(cfg, log))

	cfg.Metrics.Exporter = "statsd"
	assert.Nil(t, NewPusher(cfg, log))
}

func TestTargetFrom(t *testing.T) {
	target := TargetFrom(config.Config{AppName: " gestionale ", Environment: "production", MachineID: 7})
	assert.Equal(t, Target{Job: "gestionale", Environment: "production", Machine: "7"}, target)
	assert.Equal(t, map[string]string{"environment": "production", "machine": "7"}, target.labels())
	assert.Equal(t, map[string]string{"machine": "0"}, Target{Machine: "0"}.labels())
}
