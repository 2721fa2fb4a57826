package types

import (
	"testing"

	"github.com/logpile/logpile/common"

	"github.com/stretchr/testify/assert"
)

func TestParseSeverity(t *testing.T) {
	for v, expected := range map[int]Severity{
		0: Header,
		1: Info,
		2: Debug,
		3: Error,
	} {
		severity, err := ParseSeverity(v)
		assert.NoError(t, err)
		assert.Equal(t, expected, severity)
	}

	for _, v := range []int{-1, 4, 9, 100} {
		_, err := ParseSeverity(v)
		assert.ErrorIs(t, err, common.ErrBadSeverity)
	}
}

func TestSeverityFromString(t *testing.T) {
	severity, err := SeverityFromString("debug")
	assert.NoError(t, err)
	assert.Equal(t, Debug, severity)

	// header never travels on the wire
	_, err = SeverityFromString("header")
	assert.ErrorIs(t, err, common.ErrBadSeverity)

	_, err = SeverityFromString("INFO")
	assert.Error(t, err)
}

func TestSeverityPresentation(t *testing.T) {
	assert.Equal(t, "Info: ", Info.Prefix())
	assert.Equal(t, "Debug: ", Debug.Prefix())
	assert.Equal(t, "Error: ", Error.Prefix())
	assert.Equal(t, "", Header.Prefix())

	assert.Equal(t, common.ColorCyan, Info.Color())
	assert.Equal(t, common.ColorYellow, Debug.Color())
	assert.Equal(t, common.ColorRed, Error.Color())
	assert.Equal(t, common.ColorReset, Header.Color())

	assert.Equal(t, byte('1'), Info.Digit())
	assert.Equal(t, byte('3'), Error.Digit())
}
