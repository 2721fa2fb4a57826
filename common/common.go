package common

import "strings"

const (
	// DefaultReadBufferSize is the per-read buffer for one frame chunk
	DefaultReadBufferSize = 4096
	// DefaultMetricsStep is the statsd push interval in seconds
	DefaultMetricsStep = 10

	// StdoutSink makes the committer write to the controlling terminal
	StdoutSink = "stdout"
	// JournalSink makes the committer write to systemd-journald
	JournalSink = "journal"

	// FrameDelimiter splits the severity digit from the message payload
	FrameDelimiter = ':'

	// local ANSI presentation, applied only on interactive sinks
	ColorReset  = "\x1b[0m"
	ColorCyan   = "\x1b[0;36m"
	ColorYellow = "\x1b[0;93m"
	ColorRed    = "\x1b[0;91m"
)

// Banner marks the start of a logging session, committed once before any
// client record.
var Banner = strings.Repeat("-", 79) + "\n" +
	strings.Repeat(" ", 34) + "New Log\n" +
	strings.Repeat("-", 79) + "\n"
