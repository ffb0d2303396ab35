package ids

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextIsUniqueAndOrdered(t *testing.T) {
	g := NewGenerator()

	first := g.Next()
	second := g.Next()

	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasSuffix(first, "-1"), "got %q", first)
	assert.True(t, strings.HasSuffix(second, "-2"), "got %q", second)
}

func TestGeneratorsHaveDistinctPrefixes(t *testing.T) {
	a := NewGenerator()
	b := NewGenerator()

	assert.NotEqual(t, a.Next(), b.Next())
	assert.NotEqual(t, a.prefix, b.prefix)
	assert.Len(t, a.prefix, 26)
}

func TestNextIsSafeForConcurrentUse(t *testing.T) {
	g := NewGenerator()

	const workers, perWorker = 8, 100
	var mu sync.Mutex
	seen := make(map[string]bool, workers*perWorker)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				id := g.Next()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Len(t, seen, workers*perWorker)
}
