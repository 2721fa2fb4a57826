package types

import (
	"fmt"
	"time"

	"github.com/logpile/logpile/common"
)

// Severity tags one record. On the wire it is a single ASCII digit.
type Severity uint8

const (
	// Header is service internal, used for the session banner only
	Header Severity = iota
	// Info .
	Info
	// Debug .
	Debug
	// Error .
	Error
)

// ParseSeverity decodes the numeric wire form.
func ParseSeverity(v int) (Severity, error) {
	if v < int(Header) || v > int(Error) {
		return 0, fmt.Errorf("%w: %d", common.ErrBadSeverity, v)
	}
	return Severity(v), nil
}

// Digit is the wire form of the severity.
func (s Severity) Digit() byte {
	return '0' + byte(s)
}

// Prefix is prepended to the message when committing.
func (s Severity) Prefix() string {
	switch s {
	case Info:
		return "Info: "
	case Debug:
		return "Debug: "
	case Error:
		return "Error: "
	default:
		return ""
	}
}

// Color is the escape sequence used on interactive sinks.
func (s Severity) Color() string {
	switch s {
	case Info:
		return common.ColorCyan
	case Debug:
		return common.ColorYellow
	case Error:
		return common.ColorRed
	default:
		return common.ColorReset
	}
}

// SeverityFromString resolves a client-facing severity name. HEADER is not
// accepted, it never travels on the wire.
func SeverityFromString(name string) (Severity, error) {
	switch name {
	case "info":
		return Info, nil
	case "debug":
		return Debug, nil
	case "error":
		return Error, nil
	default:
		return 0, fmt.Errorf("%w: %q", common.ErrBadSeverity, name)
	}
}

func (s Severity) String() string {
	switch s {
	case Header:
		return "header"
	case Info:
		return "info"
	case Debug:
		return "debug"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", uint8(s))
	}
}

// Record is one fully received message, owned by the queue after Push and by
// the committer after Pop.
type Record struct {
	Severity Severity
	Message  []byte

	// bookkeeping for the ops API, never written to the sink
	Remote     string
	ReceivedAt time.Time
}

// NewRecord .
func NewRecord(severity Severity, message []byte) *Record {
	return &Record{
		Severity:   severity,
		Message:    message,
		ReceivedAt: time.Now(),
	}
}
