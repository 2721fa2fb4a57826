package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/logpile/logpile/types"

	"github.com/stretchr/testify/assert"
)

func TestQueueFIFO(t *testing.T) {
	q := New()
	for i := 0; i < 10; i++ {
		q.Push(types.NewRecord(types.Info, []byte(fmt.Sprintf("msg-%d", i))))
	}
	assert.Equal(t, 10, q.Depth())

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		record, err := q.Pop(ctx)
		assert.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("msg-%d", i), string(record.Message))
	}
	assert.Equal(t, 0, q.Depth())
}

func TestQueuePopBlocksUntilPush(t *testing.T) {
	q := New()
	done := make(chan *types.Record)

	go func() {
		record, err := q.Pop(context.Background())
		assert.NoError(t, err)
		done <- record
	}()

	select {
	case <-done:
		t.Fatal("pop returned on an empty queue")
	case <-time.After(100 * time.Millisecond):
	}

	q.Push(types.NewRecord(types.Error, []byte("wake up")))

	select {
	case record := <-done:
		assert.Equal(t, "wake up", string(record.Message))
	case <-time.After(time.Second):
		t.Fatal("pop did not wake after push")
	}
}

func TestQueuePopCancelled(t *testing.T) {
	q := New()
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	record, err := q.Pop(ctx)
	assert.Nil(t, record)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestQueueConcurrentProducers(t *testing.T) {
	q := New()
	producers := 8
	perProducer := 100

	wg := &sync.WaitGroup{}
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(types.NewRecord(types.Info, []byte(fmt.Sprintf("%d-%d", p, i))))
			}
		}(p)
	}

	seen := map[string]struct{}{}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i := 0; i < producers*perProducer; i++ {
		record, err := q.Pop(ctx)
		assert.NoError(t, err)
		_, dup := seen[string(record.Message)]
		assert.False(t, dup, "record %s popped twice", record.Message)
		seen[string(record.Message)] = struct{}{}
	}
	wg.Wait()

	assert.Equal(t, 0, q.Depth())
	_, ok := q.TryPop()
	assert.False(t, ok)
}

func TestQueueTryPop(t *testing.T) {
	q := New()
	_, ok := q.TryPop()
	assert.False(t, ok)

	q.Push(types.NewRecord(types.Debug, []byte("x")))
	record, ok := q.TryPop()
	assert.True(t, ok)
	assert.Equal(t, types.Debug, record.Severity)
}
