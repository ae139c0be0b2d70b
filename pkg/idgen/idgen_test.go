package idgen

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonotonicNeverRepeatsWithinMillisecond(t *testing.T) {
	frozen := time.UnixMilli(1_700_000_000_000)
	gen := NewMonotonic(func() time.Time { return frozen })

	assert.Equal(t, int64(1_700_000_000_000), gen.Next())
	assert.Equal(t, int64(1_700_000_000_001), gen.Next())
	assert.Equal(t, int64(1_700_000_000_002), gen.Next())
}

func TestMonotonicConcurrentUnique(t *testing.T) {
	gen := NewMonotonic(nil)
	const workers, perWorker = 8, 200

	var mu sync.Mutex
	seen := make(map[int64]struct{}, workers*perWorker)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				id := gen.Next()
				mu.Lock()
				seen[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Len(t, seen, workers*perWorker)
}

func TestSequence(t *testing.T) {
	seq := NewSequence(100)
	assert.Equal(t, int64(100), seq.Next())
	assert.Equal(t, int64(101), seq.Next())
}
