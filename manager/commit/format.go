package commit

import (
	"bytes"
	"fmt"

	"github.com/logpile/logpile/common"
	"github.com/logpile/logpile/types"
)

// Format renders one record for the sink: severity prefix, optional escape
// wrapping on interactive sinks, and a terminating newline when the message
// lacks one.
func Format(record *types.Record, interactive bool) ([]byte, error) {
	if record.Severity > types.Error {
		// unreachable when intake validated the frame
		return nil, fmt.Errorf("%w: %d reached committer", common.ErrBadSeverity, record.Severity)
	}

	buf := &bytes.Buffer{}
	if interactive {
		buf.WriteString(record.Severity.Color())
	}
	buf.WriteString(record.Severity.Prefix())
	buf.Write(record.Message)
	if interactive {
		buf.WriteString(common.ColorReset)
	}
	if !bytes.HasSuffix(record.Message, []byte{'\n'}) {
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
