// Package commit drains the handoff queue and performs the ordered writes.
// It is the only code allowed to touch the sink after startup, which is what
// keeps the output stream non-interleaved without per-write locking.
package commit

import (
	"context"
	"sync/atomic"

	"github.com/logpile/logpile/common"
	"github.com/logpile/logpile/metric"
	"github.com/logpile/logpile/queue"
	"github.com/logpile/logpile/sink"
	"github.com/logpile/logpile/types"
	"github.com/logpile/logpile/utils"

	log "github.com/sirupsen/logrus"
)

// Manager is the committer.
type Manager struct {
	config  *types.Config
	queue   *queue.Queue
	sink    *sink.Sink
	metrics *metric.Client

	running   utils.AtomicBool
	committed int64
}

// NewManager creates the committer and enqueues the session banner, so the
// banner is in the queue before the acceptor can possibly push a record.
func NewManager(config *types.Config, q *queue.Queue, s *sink.Sink, metrics *metric.Client) *Manager {
	q.Push(types.NewRecord(types.Header, []byte(common.Banner)))
	return &Manager{
		config:  config,
		queue:   q,
		sink:    s,
		metrics: metrics,
	}
}

// Run commits records in strict queue order until ctx is cancelled, then
// drains whatever is still queued before returning.
func (m *Manager) Run(ctx context.Context) error {
	m.running.Set()
	defer m.running.Unset()

	for {
		record, err := m.queue.Pop(ctx)
		if err != nil {
			m.drain()
			log.Info("[commit] exiting")
			return nil
		}
		if err := m.commit(record); err != nil {
			return err
		}
	}
}

func (m *Manager) commit(record *types.Record) error {
	formatted, err := Format(record, m.sink.Interactive)
	if err != nil {
		return err
	}
	if err := m.sink.Commit(record.Severity, formatted); err != nil {
		return err
	}

	atomic.AddInt64(&m.committed, 1)
	if m.metrics != nil {
		m.metrics.RecordCommitted(record.Severity, len(formatted))
	}
	return nil
}

// drain is best effort: records queued at shutdown are committed instead of
// dropped, but a sink error here only gets logged.
func (m *Manager) drain() {
	drained := 0
	for {
		record, ok := m.queue.TryPop()
		if !ok {
			break
		}
		if err := m.commit(record); err != nil {
			log.Errorf("[commit] drain failed %v", err)
			return
		}
		drained++
	}
	if drained > 0 {
		log.Infof("[commit] drained %d records", drained)
	}
}

// Committed is the number of records written so far.
func (m *Manager) Committed() int64 {
	return atomic.LoadInt64(&m.committed)
}

// Running .
func (m *Manager) Running() bool {
	return m.running.Bool()
}
