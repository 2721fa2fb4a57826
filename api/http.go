package api

import (
	"net"
	"net/http"
	"runtime/pprof"
	"time"

	_ "net/http/pprof" // nolint

	"github.com/logpile/logpile/manager/commit"
	"github.com/logpile/logpile/manager/intake"
	"github.com/logpile/logpile/queue"
	"github.com/logpile/logpile/sink"
	"github.com/logpile/logpile/types"
	"github.com/logpile/logpile/version"

	"github.com/bmizerany/pat"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/load"
	"github.com/shirou/gopsutil/mem"
	log "github.com/sirupsen/logrus"
)

// Handler serves the ops endpoints
type Handler struct {
	config  *types.Config
	queue   *queue.Queue
	intake  *intake.Manager
	commit  *commit.Manager
	sink    *sink.Sink
	started time.Time
}

// NewHandler .
func NewHandler(config *types.Config, q *queue.Queue, im *intake.Manager, cm *commit.Manager, s *sink.Sink) *Handler {
	return &Handler{
		config:  config,
		queue:   q,
		intake:  im,
		commit:  cm,
		sink:    s,
		started: time.Now(),
	}
}

// URL /version/
func (h *Handler) version(req *Request) (int, interface{}) {
	return http.StatusOK, JSON{"version": version.VERSION}
}

// URL /profile/
func (h *Handler) profile(req *Request) (int, interface{}) {
	r := JSON{}
	for _, p := range pprof.Profiles() {
		r[p.Name()] = p.Count()
	}
	return http.StatusOK, r
}

// URL /health/
func (h *Handler) health(req *Request) (int, interface{}) {
	status := http.StatusOK
	if !h.commit.Running() {
		status = http.StatusServiceUnavailable
	}
	return status, JSON{
		"committer_running": h.commit.Running(),
		"queue_depth":       h.queue.Depth(),
		"committed":         h.commit.Committed(),
		"sink":              h.sink.Target(),
		"uptime":            time.Since(h.started).String(),
	}
}

// URL /stats/
func (h *Handler) stats(req *Request) (int, interface{}) {
	r := JSON{"peers": h.intake.Peers()}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		r["cpu_percent"] = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		r["mem"] = JSON{
			"total":   vm.Total,
			"used":    vm.Used,
			"percent": vm.UsedPercent,
		}
	}
	if avg, err := load.Avg(); err == nil {
		r["load"] = JSON{"1": avg.Load1, "5": avg.Load5, "15": avg.Load15}
	}
	return http.StatusOK, r
}

// Serve starts the ops API if an address is configured.
// A bind failure is fatal, runtime serve errors are only logged.
func (h *Handler) Serve(addr string) {
	if addr == "" {
		return
	}

	restfulAPIServer := pat.New()
	handlers := map[string]map[string]func(*Request) (int, interface{}){
		"GET": {
			"/profile/": h.profile,
			"/version/": h.version,
			"/health/":  h.health,
			"/stats/":   h.stats,
		},
	}

	for method, routes := range handlers {
		for route, handler := range routes {
			restfulAPIServer.Add(method, route, http.HandlerFunc(JSONWrapper(handler)))
		}
	}

	http.Handle("/metrics", promhttp.Handler())
	http.Handle("/", restfulAPIServer)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		log.Panicf("[api] http api failed %s", err)
	}
	log.Infof("[api] http api started %s", addr)
	go func() {
		if err := http.Serve(listener, nil); err != nil {
			log.Errorf("[api] http api failed %s", err)
		}
	}()
}
