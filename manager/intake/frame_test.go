package intake

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/logpile/logpile/common"
	"github.com/logpile/logpile/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunkReader returns exactly one configured chunk per Read call, then EOF,
// mimicking how TCP hands over whatever has arrived.
type chunkReader struct {
	chunks [][]byte
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.chunks[0])
	r.chunks[0] = r.chunks[0][n:]
	if len(r.chunks[0]) == 0 {
		r.chunks = r.chunks[1:]
	}
	return n, nil
}

func TestReadFrameSimple(t *testing.T) {
	record, err := readFrame(strings.NewReader("1:hello"), common.DefaultReadBufferSize)
	require.NoError(t, err)
	assert.Equal(t, types.Info, record.Severity)
	assert.Equal(t, "hello", string(record.Message))
}

func TestReadFrameChunked(t *testing.T) {
	reader := &chunkReader{chunks: [][]byte{
		[]byte("3:part one "),
		[]byte("part two "),
		[]byte("part three"),
	}}
	record, err := readFrame(reader, common.DefaultReadBufferSize)
	require.NoError(t, err)
	assert.Equal(t, types.Error, record.Severity)
	assert.Equal(t, "part one part two part three", string(record.Message))
}

func TestReadFrameDelimiterAtChunkBoundary(t *testing.T) {
	// the delimiter is the very last byte of the first chunk: severity
	// parses, the message starts empty and comes entirely from later chunks
	reader := &chunkReader{chunks: [][]byte{
		[]byte("2:"),
		[]byte("rest of it"),
	}}
	record, err := readFrame(reader, 2)
	require.NoError(t, err)
	assert.Equal(t, types.Debug, record.Severity)
	assert.Equal(t, "rest of it", string(record.Message))
}

func TestReadFrameNoDelimiter(t *testing.T) {
	_, err := readFrame(strings.NewReader("no delimiter here"), common.DefaultReadBufferSize)
	assert.ErrorIs(t, err, common.ErrNoDelimiter)
}

func TestReadFrameDelimiterOutsideFirstChunk(t *testing.T) {
	// the delimiter exists but lands beyond the first buffer-size of bytes
	payload := strings.Repeat("x", 16) + ":late"
	_, err := readFrame(strings.NewReader(payload), 8)
	assert.ErrorIs(t, err, common.ErrNoDelimiter)
}

func TestReadFrameEmpty(t *testing.T) {
	_, err := readFrame(bytes.NewReader(nil), common.DefaultReadBufferSize)
	assert.ErrorIs(t, err, common.ErrEmptyFrame)
}

func TestReadFrameBadSeverity(t *testing.T) {
	_, err := readFrame(strings.NewReader("9:test"), common.DefaultReadBufferSize)
	assert.ErrorIs(t, err, common.ErrBadSeverity)

	_, err = readFrame(strings.NewReader("nope:test"), common.DefaultReadBufferSize)
	assert.ErrorIs(t, err, common.ErrBadSeverity)

	_, err = readFrame(strings.NewReader(":test"), common.DefaultReadBufferSize)
	assert.ErrorIs(t, err, common.ErrBadSeverity)
}

func TestReadFrameTrimsTrailingNUL(t *testing.T) {
	record, err := readFrame(strings.NewReader("1:hello\x00"), common.DefaultReadBufferSize)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(record.Message))
}

func TestReadFrameLargeMessage(t *testing.T) {
	message := strings.Repeat("a", common.DefaultReadBufferSize*3+17)
	record, err := readFrame(strings.NewReader("2:"+message), common.DefaultReadBufferSize)
	require.NoError(t, err)
	assert.Equal(t, types.Debug, record.Severity)
	assert.Equal(t, message, string(record.Message))
}
