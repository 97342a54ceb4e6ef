// Command demo drives a Map from several concurrent worker goroutines and
// prints a summary, standing in for an external launcher/driver program
// rather than part of the core package.
//
// Uses a worker-goroutine + wg.Wait() shape, and borrows the
// key_to_string/value_to_string debug vocabulary for describing a key in
// text. Only "EMPTY or TOMBSTONE" and the present value are visible through
// the public API, so the primed forms ("TOMBPRIME", "Prime(v)") are never
// printed. Kept here, not in the core package, since debug printing is
// treated as out of scope for the map itself.
package main

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/agilira/nbhashmap"
)

func main() {
	m := nbhashmap.NewWithSize[int, string](64)

	const workers = 8
	const keysPerWorker = 2000

	var wg sync.WaitGroup
	start := time.Now()

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < keysPerWorker; i++ {
				key := id*keysPerWorker + i
				m.Put(key, fmt.Sprintf("worker-%d-value-%d", id, i))
				if i%3 == 0 {
					m.Remove(key)
				}
			}
		}(w)
	}
	wg.Wait()

	elapsed := time.Since(start)
	stats := m.Stats()
	fmt.Printf("loaded %d workers x %d keys in %v\n", workers, keysPerWorker, elapsed)
	fmt.Printf("live entries: %d, gets: %d, puts: %d, removes: %d, resizes: %d\n",
		stats.Len, stats.Gets, stats.Puts, stats.Removes, stats.Resizes)

	fmt.Println()
	fmt.Println("probing a few slots:")
	for _, key := range []int{0, 1, 2, 3, 4, 5} {
		fmt.Printf("  key=%d -> %s\n", key, slotString(m, key))
	}

	fmt.Println()
	fmt.Println("GetOrCompute demo (singleflight dedup):")
	demoGetOrCompute(m)
}

// slotString describes a key's externally-observable state using the
// classic non-blocking-hash-table vocabulary ("EMPTY", "TOMBSTONE", the
// present value) — derived here purely from the public Get API, since the
// map's actual per-slot primed/tombprime bookkeeping is a private
// implementation detail, not something any external driver is entitled to
// see.
func slotString(m *nbhashmap.Map[int, string], key int) string {
	value, found := m.Get(key)
	if !found {
		return "EMPTY or TOMBSTONE"
	}
	return fmt.Sprintf("%q", value)
}

func demoGetOrCompute(m *nbhashmap.Map[int, string]) {
	const sharedKey = 999999

	var wg sync.WaitGroup
	var computeCalls int
	var mu sync.Mutex

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()

			value, err := m.GetOrComputeWithContext(ctx, sharedKey, func(ctx context.Context) (string, error) {
				mu.Lock()
				computeCalls++
				mu.Unlock()
				time.Sleep(20 * time.Millisecond)
				return "computed-once", nil
			})
			if err != nil {
				log.Printf("goroutine %d: compute error: %v", id, err)
				return
			}
			_ = value
		}(i)
	}
	wg.Wait()

	fmt.Printf("  20 goroutines raced on one key, compute ran %d time(s)\n", computeCalls)
}
