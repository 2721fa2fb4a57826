package common

import "errors"

var (
	// ErrNoDelimiter means the first chunk of a frame carried no ':'
	ErrNoDelimiter = errors.New("no delimiter in first chunk")
	// ErrBadSeverity means the frame prefix is not a known severity digit
	ErrBadSeverity = errors.New("invalid severity")
	// ErrEmptyFrame means the peer closed before sending any byte
	ErrEmptyFrame = errors.New("empty frame")
	// ErrQueueClosed .
	ErrQueueClosed = errors.New("queue closed")
	// ErrBadSink means the sink target could not be opened
	ErrBadSink = errors.New("failed to open sink")
	// ErrBadPort .
	ErrBadPort = errors.New("port out of range")
)
