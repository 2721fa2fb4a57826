package metric

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/logpile/logpile/types"
	"github.com/logpile/logpile/utils"

	statsdlib "github.com/CMGS/statsd"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

// Client combine statsd and prometheus
type Client struct {
	statsd string
	prefix string
	step   time.Duration
	depth  func() int

	mu   sync.Mutex
	data map[string]float64

	queueDepth     prometheus.Gauge
	committed      *prometheus.CounterVec
	committedBytes prometheus.Counter
	connections    prometheus.Counter
	badFrames      prometheus.Counter

	statsdClient *statsdlib.Client
}

// New creates the metrics client. depth reports the current handoff queue
// depth when scraped or pushed.
func New(config *types.Config, depth func() int) *Client {
	labels := map[string]string{"hostname": config.HostName}

	queueDepth := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "logpile_queue_depth",
		Help:        "records waiting to be committed.",
		ConstLabels: labels,
	})
	committed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "logpile_records_committed_total",
		Help:        "records committed to the sink.",
		ConstLabels: labels,
	}, []string{"severity"})
	committedBytes := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "logpile_bytes_committed_total",
		Help:        "formatted bytes written to the sink.",
		ConstLabels: labels,
	})
	connections := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "logpile_connections_total",
		Help:        "client connections accepted.",
		ConstLabels: labels,
	})
	badFrames := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "logpile_bad_frames_total",
		Help:        "connections rejected with a protocol violation.",
		ConstLabels: labels,
	})

	prometheus.MustRegister(queueDepth, committed, committedBytes, connections, badFrames)

	statsd := ""
	if transfers := utils.NewHashBackends(config.Metrics.Transfers); transfers.Len() > 0 {
		statsd = transfers.Get(config.HostName, 0)
	}

	return &Client{
		statsd: statsd,
		prefix: fmt.Sprintf("logpile.%s", config.HostName),
		step:   time.Duration(config.Metrics.Step) * time.Second,
		depth:  depth,
		data:   map[string]float64{},

		queueDepth:     queueDepth,
		committed:      committed,
		committedBytes: committedBytes,
		connections:    connections,
		badFrames:      badFrames,
	}
}

// Unregister unlink all prometheus things
func (m *Client) Unregister() {
	prometheus.Unregister(m.queueDepth)
	prometheus.Unregister(m.committed)
	prometheus.Unregister(m.committedBytes)
	prometheus.Unregister(m.connections)
	prometheus.Unregister(m.badFrames)
}

// ConnectionAccepted counts one accepted client connection.
func (m *Client) ConnectionAccepted() {
	m.connections.Inc()
	m.bump("connections", 1)
}

// BadFrame counts one protocol violation.
func (m *Client) BadFrame() {
	m.badFrames.Inc()
	m.bump("bad_frames", 1)
}

// RecordCommitted counts one committed record and its formatted size.
func (m *Client) RecordCommitted(severity types.Severity, size int) {
	m.committed.WithLabelValues(severity.String()).Inc()
	m.committedBytes.Add(float64(size))
	m.bump("committed."+severity.String(), 1)
	m.bump("committed.bytes", float64(size))
}

func (m *Client) bump(key string, delta float64) {
	m.mu.Lock()
	m.data[key] += delta
	m.mu.Unlock()
}

// Run pushes to statsd every step until ctx is done. The prometheus side
// needs no loop, only the queue depth gauge is refreshed here for pull.
func (m *Client) Run(ctx context.Context) {
	tick := time.NewTicker(m.step)
	defer tick.Stop()

	for {
		select {
		case <-tick.C:
			m.queueDepth.Set(float64(m.depth()))
			if err := m.send(); err != nil {
				log.Errorf("[metric] push failed %v", err)
			}
		case <-ctx.Done():
			log.Info("[metric] pusher stopped")
			return
		}
	}
}

// Lazy connecting
func (m *Client) checkConn(ctx context.Context) error {
	if m.statsdClient != nil {
		return nil
	}
	return utils.BackoffRetry(ctx, 3, func() (err error) {
		m.statsdClient, err = statsdlib.New(m.statsd, statsdlib.WithErrorHandler(func(err error) {
			log.Errorf("[metric] sending statsd failed: %v", err)
		}))
		return err
	})
}

// send to statsd
func (m *Client) send() error {
	if m.statsd == "" {
		return nil
	}
	if err := m.checkConn(context.TODO()); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data["queue.depth"] = float64(m.depth())
	for k, v := range m.data {
		key := fmt.Sprintf("%s.%s", m.prefix, k)
		m.statsdClient.Gauge(key, v)
		delete(m.data, k)
	}
	return nil
}
