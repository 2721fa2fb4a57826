package intake

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/logpile/logpile/common"
	"github.com/logpile/logpile/types"
)

// readFrame consumes one connection's byte stream and produces exactly one
// record. A frame is `<digit>:<message>`, terminated by the peer closing the
// connection. The delimiter must land inside the first chunk; the message
// accumulates across however many reads the peer needs.
func readFrame(conn io.Reader, bufSize int) (*types.Record, error) {
	buf := make([]byte, bufSize)
	var severity types.Severity
	var message []byte
	first := true

	for {
		n, err := conn.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			if first {
				i := bytes.IndexByte(chunk, common.FrameDelimiter)
				if i < 0 {
					return nil, common.ErrNoDelimiter
				}
				v, convErr := strconv.Atoi(string(chunk[:i]))
				if convErr != nil {
					return nil, fmt.Errorf("%w: %q", common.ErrBadSeverity, chunk[:i])
				}
				if severity, convErr = types.ParseSeverity(v); convErr != nil {
					return nil, convErr
				}
				message = append(message, chunk[i+1:]...)
				first = false
			} else {
				message = append(message, chunk...)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}

	if first {
		// peer closed without sending a byte
		return nil, common.ErrEmptyFrame
	}

	// older clients terminate the payload with a NUL
	message = bytes.TrimRight(message, "\x00")

	return types.NewRecord(severity, message), nil
}
