package ids

import (
	"strconv"
	"sync"
	"testing"
)

func TestGenerateUnique(t *testing.T) {
	seen := make(map[int64]struct{})
	for i := 0; i < 10000; i++ {
		id := Generate()
		if id <= 0 {
			t.Fatalf("id = %d, want positive", id)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = struct{}{}
	}
}

func TestGenerateMonotonic(t *testing.T) {
	prev := Generate()
	for i := 0; i < 1000; i++ {
		id := Generate()
		if id <= prev {
			t.Fatalf("id %d not greater than previous %d", id, prev)
		}
		prev = id
	}
}

func TestGenerateConcurrent(t *testing.T) {
	const workers, perWorker = 8, 1000
	var mu sync.Mutex
	seen := make(map[int64]struct{}, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]int64, 0, perWorker)
			for i := 0; i < perWorker; i++ {
				local = append(local, Generate())
			}
			mu.Lock()
			defer mu.Unlock()
			for _, id := range local {
				if _, dup := seen[id]; dup {
					t.Errorf("duplicate id %d", id)
					return
				}
				seen[id] = struct{}{}
			}
		}()
	}
	wg.Wait()
}

func TestGenerateString(t *testing.T) {
	s := GenerateString()
	if _, err := strconv.ParseInt(s, 10, 64); err != nil {
		t.Fatalf("GenerateString() = %q, not numeric: %v", s, err)
	}
}

func TestSetNodeIDOutOfRange(t *testing.T) {
	SetNodeID(2048) // 超界回落默认值
	if defaultGen.nodeID != 1 {
		t.Fatalf("nodeID = %d, want fallback 1", defaultGen.nodeID)
	}
	SetNodeID(7)
	if defaultGen.nodeID != 7 {
		t.Fatalf("nodeID = %d, want 7", defaultGen.nodeID)
	}
	SetNodeID(1)
}
