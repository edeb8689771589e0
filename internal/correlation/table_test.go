package correlation

import (
	"sync"
	"testing"
)

func TestRecordAndResolve(t *testing.T) {
	table := NewTable()

	table.Record(100, 1)
	table.Record(101, 2)

	if id, ok := table.Resolve(100); !ok || id != 1 {
		t.Fatalf("Resolve(100) = %d, %v", id, ok)
	}
	if id, ok := table.Resolve(101); !ok || id != 2 {
		t.Fatalf("Resolve(101) = %d, %v", id, ok)
	}
	if _, ok := table.Resolve(999); ok {
		t.Fatalf("Resolve(999) matched an unrecorded message")
	}
	if table.Len() != 2 {
		t.Fatalf("Len = %d, want 2", table.Len())
	}
}

func TestRecordOverwritesExistingEntry(t *testing.T) {
	table := NewTable()

	table.Record(100, 1)
	table.Record(100, 7)

	if id, _ := table.Resolve(100); id != 7 {
		t.Fatalf("Resolve(100) = %d, want 7", id)
	}
	if table.Len() != 1 {
		t.Fatalf("Len = %d, want 1", table.Len())
	}
}

func TestConcurrentAccess(t *testing.T) {
	table := NewTable()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			table.Record(i, int64(i))
			table.Resolve(i)
		}(i)
	}
	wg.Wait()

	if table.Len() != 50 {
		t.Fatalf("Len = %d, want 50", table.Len())
	}
}
