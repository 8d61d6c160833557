package idgen_test

import (
	"sync"
	"testing"

	"github.com/artpar/modeladmin/adapters/idgen"
	"github.com/google/uuid"
)

func TestUUID_New(t *testing.T) {
	id := idgen.UUID{}.New()

	parsed, err := uuid.Parse(id)
	if err != nil {
		t.Fatalf("New() = %q is not a UUID: %v", id, err)
	}
	if parsed.Version() != 4 {
		t.Errorf("version = %d, want 4", parsed.Version())
	}
}

func TestSequential_New(t *testing.T) {
	g := idgen.NewSequential("rec-")

	for _, want := range []string{"rec-1", "rec-2", "rec-3"} {
		if got := g.New(); got != want {
			t.Errorf("New() = %q, want %q", got, want)
		}
	}
}

func TestSequential_Concurrent(t *testing.T) {
	g := idgen.NewSequential("")

	var mu sync.Mutex
	seen := make(map[string]bool)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := g.New()
			mu.Lock()
			defer mu.Unlock()
			if seen[id] {
				t.Errorf("duplicate ID %q", id)
			}
			seen[id] = true
		}()
	}
	wg.Wait()

	if len(seen) != 50 {
		t.Errorf("generated %d unique IDs, want 50", len(seen))
	}
}
