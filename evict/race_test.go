package evict

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
)

// N concurrent SetValue calls with distinct values form a single chain:
// every predecessor is returned to exactly one caller, nothing is lost, and
// the final value is one of the submitted values.
// Should pass under `-race` without detector reports.
func TestRace_SetValueTotalOrder(t *testing.T) {
	t.Parallel()

	const (
		initial = -1
		n       = 2_000
	)
	e := MustEntry(noopOwner[string, int](), "k", initial, 0)

	olds := make([]int, n)
	start := make(chan struct{})
	var g errgroup.Group
	for i := 0; i < n; i++ {
		i := i // per-iteration copy (go < 1.22)
		g.Go(func() error {
			<-start
			olds[i] = e.SetValue(i)
			return nil
		})
	}
	close(start)
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	final := e.Value()
	if final < 0 || final >= n {
		t.Fatalf("final value %d was never submitted", final)
	}

	// Each of initial, 0..n-1 except final must have been returned exactly once.
	seen := make(map[int]int, n)
	for _, o := range olds {
		seen[o]++
	}
	if seen[initial] != 1 {
		t.Fatalf("initial value returned %d times, want 1", seen[initial])
	}
	for v := 0; v < n; v++ {
		want := 1
		if v == final {
			want = 0
		}
		if seen[v] != want {
			t.Fatalf("value %d returned %d times, want %d", v, seen[v], want)
		}
	}

	// Following predecessor links from final must visit every write once.
	pred := make(map[int]int, n) // written value -> value it replaced
	for i, o := range olds {
		pred[i] = o
	}
	steps := 0
	for cur := final; cur != initial; cur = pred[cur] {
		steps++
		if steps > n {
			t.Fatal("predecessor chain has a cycle")
		}
	}
	if steps != n {
		t.Fatalf("chain length %d, want %d", steps, n)
	}
}

// Readers racing with writers always see a complete, previously written value.
func TestRace_ValueNeverTorn(t *testing.T) {
	t.Parallel()

	type pair struct{ a, b int }
	e := MustEntry(noopOwner[int, pair](), 1, pair{0, 0}, 0)

	var stop atomic.Bool
	var g errgroup.Group
	for w := 0; w < 4; w++ {
		g.Go(func() error {
			for i := 1; !stop.Load(); i++ {
				e.SetValue(pair{i, -i})
			}
			return nil
		})
	}
	readers := runtime.GOMAXPROCS(0)
	var torn atomic.Int64
	var wg sync.WaitGroup
	wg.Add(readers)
	for r := 0; r < readers; r++ {
		go func() {
			defer wg.Done()
			deadline := time.Now().Add(200 * time.Millisecond)
			for time.Now().Before(deadline) {
				if v := e.Value(); v.a != -v.b {
					torn.Add(1)
				}
			}
		}()
	}
	wg.Wait()
	stop.Store(true)
	_ = g.Wait()

	if n := torn.Load(); n != 0 {
		t.Fatalf("observed %d torn reads", n)
	}
}

// Scheduler slot and expiry checks under concurrent access.
func TestRace_DataAndShouldEvict(t *testing.T) {
	t.Parallel()

	e := MustEntry(noopOwner[string, string](), "k", "v", 5)
	var g errgroup.Group
	for w := 0; w < 8; w++ {
		w := w // per-iteration copy (go < 1.22)
		g.Go(func() error {
			for i := 0; i < 1_000; i++ {
				e.SetData(w*1_000 + i)
				_ = e.Data()
				_ = e.ShouldEvict()
				_ = e.String()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	if _, ok := e.Data().(int); !ok {
		t.Fatalf("Data must hold one of the written ints, got %T", e.Data())
	}
}
