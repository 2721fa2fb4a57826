package utils

import (
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWritePid(t *testing.T) {
	pidPath, err := os.CreateTemp(os.TempDir(), "pid-")
	assert.NoError(t, err)
	defer os.Remove(pidPath.Name())

	WritePid(pidPath.Name())

	content, err := os.ReadFile(pidPath.Name())
	assert.NoError(t, err)

	pid := strconv.Itoa(os.Getpid())
	assert.Equal(t, pid, string(content))
}

func TestAtoi(t *testing.T) {
	assert.Equal(t, 42, Atoi("42", 0))
	assert.Equal(t, 7, Atoi("not a number", 7))
	assert.Equal(t, -1, Atoi("", -1))
}

func TestAtomicBool(t *testing.T) {
	flag := &AtomicBool{}
	assert.False(t, flag.Bool())
	flag.Set()
	assert.True(t, flag.Bool())
	flag.Unset()
	assert.False(t, flag.Bool())
}
