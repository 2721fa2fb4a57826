// Package intake accepts client connections and turns each one into exactly
// one record on the handoff queue. Connections are drained strictly one at a
// time so a push always carries a complete message.
package intake

import (
	"context"
	"fmt"
	"net"
	"sync"
	"syscall"
	"time"

	"github.com/logpile/logpile/metric"
	"github.com/logpile/logpile/queue"
	"github.com/logpile/logpile/types"

	cache "github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

const (
	peerTTL           = 30 * time.Minute
	peerSweepInterval = 10 * time.Minute
)

// Manager is the connection acceptor.
type Manager struct {
	config   *types.Config
	queue    *queue.Queue
	metrics  *metric.Client
	listener net.Listener

	// the connection currently being drained, closed on shutdown so a
	// stalled sender cannot pin the accept loop
	mu     sync.Mutex
	active net.Conn

	// recently seen peers, for the ops API only
	peers *cache.Cache
}

// NewManager binds the intake socket. Socket setup failures are fatal, the
// caller aborts before any connection is accepted.
func NewManager(ctx context.Context, config *types.Config, q *queue.Queue, metrics *metric.Client) (*Manager, error) {
	lc := net.ListenConfig{Control: reuseControl}
	listener, err := lc.Listen(ctx, "tcp", fmt.Sprintf(":%d", config.Port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen on port %d: %w", config.Port, err)
	}

	log.Infof("[intake] listening on %s", listener.Addr())
	return &Manager{
		config:   config,
		queue:    q,
		metrics:  metrics,
		listener: listener,
		peers:    cache.New(peerTTL, peerSweepInterval),
	}, nil
}

// Run accepts until ctx is cancelled. Any accept error outside shutdown is
// returned and brings the service down, as does a malformed frame unless
// intake.tolerate_bad_frames is set.
func (m *Manager) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		m.listener.Close()
		// the acceptor may be blocked mid-frame, unblock that read too
		m.mu.Lock()
		if m.active != nil {
			m.active.Close()
		}
		m.mu.Unlock()
	}()

	for {
		conn, err := m.listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				log.Info("[intake] exiting")
				return nil
			default:
				return fmt.Errorf("accept failed: %w", err)
			}
		}

		if m.metrics != nil {
			m.metrics.ConnectionAccepted()
		}

		m.setActive(conn)
		if ctx.Err() != nil {
			// cancelled between accept and read
			conn.Close()
			log.Info("[intake] exiting")
			return nil
		}

		remote := conn.RemoteAddr().String()
		record, err := readFrame(conn, m.config.Intake.ReadBufferSize)
		m.setActive(nil)
		conn.Close()

		if err != nil {
			if ctx.Err() != nil {
				log.Info("[intake] exiting")
				return nil
			}
			if m.metrics != nil {
				m.metrics.BadFrame()
			}
			if err := m.escalate(remote, err); err != nil {
				return err
			}
			continue
		}

		record.Remote = remote
		m.trackPeer(remote)
		m.queue.Push(record)
	}
}

func (m *Manager) setActive(conn net.Conn) {
	m.mu.Lock()
	m.active = conn
	m.mu.Unlock()
}

// escalate is the single place deciding what a protocol violation costs.
// Default reproduces the historical contract: one bad client stops the
// whole service.
func (m *Manager) escalate(remote string, err error) error {
	if m.config.Intake.TolerateBadFrames {
		log.Warnf("[intake] dropped bad frame from %s: %v", remote, err)
		return nil
	}
	return fmt.Errorf("bad frame from %s: %w", remote, err)
}

func (m *Manager) trackPeer(remote string) {
	host, _, err := net.SplitHostPort(remote)
	if err != nil {
		host = remote
	}
	if _, err := m.peers.IncrementInt64(host, 1); err != nil {
		m.peers.Set(host, int64(1), cache.DefaultExpiration)
	}
}

// Peers reports frames per recently seen client host.
func (m *Manager) Peers() map[string]int64 {
	result := map[string]int64{}
	for host, item := range m.peers.Items() {
		if count, ok := item.Object.(int64); ok {
			result[host] = count
		}
	}
	return result
}

// Addr is the bound listen address.
func (m *Manager) Addr() net.Addr {
	return m.listener.Addr()
}

// the original service sets both before binding, keep that
func reuseControl(_, _ string, conn syscall.RawConn) error {
	var opErr error
	if err := conn.Control(func(fd uintptr) {
		if opErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); opErr != nil {
			return
		}
		opErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
	}); err != nil {
		return err
	}
	return opErr
}
