package utils

import (
	"os"
	"strconv"

	log "github.com/sirupsen/logrus"
)

// WritePid writes the current pid, dies if it can't.
func WritePid(path string) {
	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0755); err != nil {
		log.Panicf("[utils] save pid file failed %s", err)
	}
}

// Atoi converts a string to an int, or returns the fallback.
func Atoi(s string, fallback int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return i
}
