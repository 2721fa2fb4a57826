package utils

import "sync/atomic"

// AtomicBool is a flag safe to flip from multiple goroutines.
type AtomicBool struct {
	v int32
}

func (a *AtomicBool) Bool() bool {
	return atomic.LoadInt32(&a.v) == 1
}

func (a *AtomicBool) Set() {
	atomic.StoreInt32(&a.v, 1)
}

func (a *AtomicBool) Unset() {
	atomic.StoreInt32(&a.v, 0)
}
