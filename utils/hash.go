package utils

import "hash/fnv"

// HashBackends picks a backend from a fixed list by hashing a key,
// so the same host keeps reporting to the same statsd endpoint.
type HashBackends struct {
	backends []string
	length   uint32
}

func NewHashBackends(backends []string) *HashBackends {
	return &HashBackends{backends, uint32(len(backends))}
}

func (h *HashBackends) Get(key string, offset int) string {
	sum := fnv.New32a()
	sum.Write([]byte(key))
	return h.backends[(sum.Sum32()+uint32(offset))%h.length]
}

func (h *HashBackends) Len() int {
	return len(h.backends)
}
