package quotemetrics

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/golang/snappy"
	"github.com/ifgsrl/gestionale/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/prometheus/prompb"
	"go.uber.org/zap"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/protoadapt"
)

const (
	ExporterRemoteWrite = "prometheus_remote_write"
	ExporterPushgateway = "prometheus_pushgateway"
	defaultPushTimeout  = 5 * time.Second
)

var errNoEndpoint = errors.New("metrics_endpoint_required")

// Pusher sends the registry contents to a Prometheus endpoint.
type Pusher interface {
	Push(ctx context.Context, registry prometheus.Gatherer) error
}

// Target identifies the quoting process on the metrics backend. Every
// pushed series carries it.
type Target struct {
	Job         string
	Environment string
	Machine     string
}

func TargetFrom(cfg config.Config) Target {
	return Target{
		Job:         strings.TrimSpace(cfg.AppName),
		Environment: strings.TrimSpace(cfg.Environment),
		Machine:     strconv.FormatInt(cfg.MachineID, 10),
	}
}

// labels returns the non-empty target labels, job excluded.
func (t Target) labels() map[string]string {
	out := make(map[string]string, 2)
	if t.Environment != "" {
		out["environment"] = t.Environment
	}
	if t.Machine != "" {
		out["machine"] = t.Machine
	}
	return out
}

// NewPusher builds the configured pusher. Quoting never depends on
// metrics, so a disabled or unusable exporter yields nil.
func NewPusher(cfg config.Config, log *zap.Logger) Pusher {
	if log == nil {
		log = zap.NewNop()
	}
	if !cfg.Metrics.Enabled {
		return nil
	}

	exporter := strings.ToLower(strings.TrimSpace(cfg.Metrics.Exporter))
	endpoint := strings.TrimSpace(cfg.Metrics.Endpoint)
	target := TargetFrom(cfg)

	var (
		pusher Pusher
		err    error
	)
	switch {
	case endpoint == "":
		err = errNoEndpoint
	case exporter == ExporterRemoteWrite:
		if _, perr := url.ParseRequestURI(endpoint); perr != nil {
			err = fmt.Errorf("invalid metrics endpoint: %w", perr)
			break
		}
		pusher = NewRemoteWritePusher(endpoint, cfg.Metrics.AuthToken, target)
	case exporter == ExporterPushgateway:
		pusher = NewPushgatewayPusher(endpoint, target)
	default:
		err = fmt.Errorf("unknown metrics exporter %q", exporter)
	}
	if err != nil {
		log.Warn("metrics push disabled", zap.String("exporter", exporter), zap.Error(err))
		return nil
	}
	return pusher
}

// RemoteWritePusher sends one sample per series to a Prometheus
// remote_write endpoint.
type RemoteWritePusher struct {
	endpoint   string
	authToken  string
	target     Target
	httpClient *http.Client
	now        func() time.Time
}

func NewRemoteWritePusher(endpoint, authToken string, target Target) *RemoteWritePusher {
	return &RemoteWritePusher{
		endpoint:   endpoint,
		authToken:  strings.TrimSpace(authToken),
		target:     target,
		httpClient: &http.Client{Timeout: defaultPushTimeout},
		now:        time.Now,
	}
}

func (p *RemoteWritePusher) Push(ctx context.Context, registry prometheus.Gatherer) error {
	if p == nil || registry == nil {
		return nil
	}

	families, err := registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	series := remoteWriteSeries(families, p.seriesLabels(), p.now().UnixMilli())
	if len(series) == 0 {
		return nil
	}

	payload, err := proto.Marshal(protoadapt.MessageV2Of(&prompb.WriteRequest{Timeseries: series}))
	if err != nil {
		return fmt.Errorf("encode remote write: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(snappy.Encode(nil, payload)))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-protobuf")
	req.Header.Set("Content-Encoding", "snappy")
	req.Header.Set("X-Prometheus-Remote-Write-Version", "0.1.0")
	if p.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+p.authToken)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("remote write: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("remote write returned %s", resp.Status)
	}
	return nil
}

func (p *RemoteWritePusher) seriesLabels() map[string]string {
	labels := p.target.labels()
	if p.target.Job != "" {
		labels["job"] = p.target.Job
	}
	return labels
}

// PushgatewayPusher replaces the job's group on a Pushgateway.
type PushgatewayPusher struct {
	endpoint string
	target   Target
}

func NewPushgatewayPusher(endpoint string, target Target) *PushgatewayPusher {
	return &PushgatewayPusher{endpoint: strings.TrimSpace(endpoint), target: target}
}

func (p *PushgatewayPusher) Push(ctx context.Context, registry prometheus.Gatherer) error {
	if p == nil || registry == nil {
		return nil
	}
	if p.endpoint == "" {
		return errNoEndpoint
	}
	if p.target.Job == "" {
		return errors.New("pushgateway_job_required")
	}

	pusher := push.New(p.endpoint, p.target.Job).Gatherer(registry)
	labels := p.target.labels()
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		pusher = pusher.Grouping(k, labels[k])
	}
	return pusher.PushContext(ctx)
}

// remoteWriteSeries flattens counters and gauges into samples at ts. Extra
// labels are added unless the metric already sets them.
func remoteWriteSeries(families []*dto.MetricFamily, extra map[string]string, ts int64) []prompb.TimeSeries {
	var series []prompb.TimeSeries
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			value, ok := sampleValue(family.GetType(), metric)
			if !ok {
				continue
			}

			set := map[string]string{"__name__": family.GetName()}
			for k, v := range extra {
				set[k] = v
			}
			for _, l := range metric.GetLabel() {
				set[l.GetName()] = l.GetValue()
			}

			labels := make([]prompb.Label, 0, len(set))
			for k, v := range set {
				labels = append(labels, prompb.Label{Name: k, Value: v})
			}
			sort.Slice(labels, func(i, j int) bool { return labels[i].Name < labels[j].Name })

			series = append(series, prompb.TimeSeries{
				Labels:  labels,
				Samples: []prompb.Sample{{Value: value, Timestamp: ts}},
			})
		}
	}
	return series
}

func sampleValue(kind dto.MetricType, metric *dto.Metric) (float64, bool) {
	switch {
	case metric == nil:
		return 0, false
	case kind == dto.MetricType_COUNTER && metric.GetCounter() != nil:
		return metric.GetCounter().GetValue(), true
	case kind == dto.MetricType_GAUGE && metric.GetGauge() != nil:
		return metric.GetGauge().GetValue(), true
	case kind == dto.MetricType_UNTYPED && metric.GetUntyped() != nil:
		return metric.GetUntyped().GetValue(), true
	}
	return 0, false
}
