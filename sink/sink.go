// Package sink owns the single output destination every record is committed
// to. After construction only the commit manager touches it.
package sink

import (
	"bytes"
	"fmt"
	"os"

	"github.com/logpile/logpile/common"
	"github.com/logpile/logpile/types"

	"github.com/coreos/go-systemd/journal"
	isatty "github.com/mattn/go-isatty"
	log "github.com/sirupsen/logrus"
)

// Sink is the destination stream: the controlling terminal, an append-mode
// file opened once and held for the process lifetime, or systemd-journald.
type Sink struct {
	target    string
	file      *os.File
	toJournal bool

	// Interactive is decided once at construction and controls whether the
	// committer applies escape sequences.
	Interactive bool
}

// New resolves the sink target. Anything other than the stdout and journal
// sentinels is treated as a file path.
func New(target string) (*Sink, error) {
	s := &Sink{target: target}

	switch target {
	case common.StdoutSink:
		s.file = os.Stdout
		s.Interactive = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	case common.JournalSink:
		if !journal.Enabled() {
			return nil, fmt.Errorf("%w: journald not available", common.ErrBadSink)
		}
		s.toJournal = true
	default:
		file, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", common.ErrBadSink, target, err)
		}
		s.file = file
	}

	log.Infof("[sink] committing to %s, interactive: %v", target, s.Interactive)
	return s, nil
}

// Commit writes one formatted record in a single call. The caller is the
// sole writer, records can never interleave.
func (s *Sink) Commit(severity types.Severity, formatted []byte) error {
	if s.toJournal {
		return journal.Send(string(bytes.TrimRight(formatted, "\n")), priorityOf(severity), nil)
	}
	_, err := s.file.Write(formatted)
	return err
}

// Target .
func (s *Sink) Target() string {
	return s.target
}

// Close releases the sink. Stdout is left open.
func (s *Sink) Close() error {
	if s.toJournal || s.file == os.Stdout {
		return nil
	}
	return s.file.Close()
}

func priorityOf(severity types.Severity) journal.Priority {
	switch severity {
	case types.Debug:
		return journal.PriDebug
	case types.Error:
		return journal.PriErr
	case types.Header:
		return journal.PriNotice
	default:
		return journal.PriInfo
	}
}
