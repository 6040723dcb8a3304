package benchmark

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/yndnr/rifsredis/internal/storage/memory"
)

// BenchmarkStoreSet benchmarks writes into a preloaded store.
func BenchmarkStoreSet(b *testing.B) {
	runWithKeyCounts(b, KeyCounts, func(b *testing.B, count int) {
		store := memory.New()
		prefillStore(store, count)

		b.ResetTimer()
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			store.Set(fmt.Sprintf("bench:%d", i), "value")
		}

		b.StopTimer()
		reportMemory(b, "mem")
	})
}

// BenchmarkStoreGet benchmarks reads of existing keys.
func BenchmarkStoreGet(b *testing.B) {
	runWithKeyCounts(b, KeyCounts, func(b *testing.B, count int) {
		store := memory.New()
		keys := prefillStore(store, count)

		b.ResetTimer()
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			if _, ok := store.Get(keys[i%len(keys)]); !ok {
				b.Fatal("key missing")
			}
		}
	})
}

// BenchmarkStoreParallel mixes reads and writes across goroutines.
func BenchmarkStoreParallel(b *testing.B) {
	for _, shards := range []int{1, 16, 64} {
		b.Run(fmt.Sprintf("shards_%d", shards), func(b *testing.B) {
			store := memory.New(memory.WithShardCount(shards))
			keys := prefillStore(store, 10000)
			var n atomic.Uint64

			b.ResetTimer()
			b.ReportAllocs()

			b.RunParallel(func(pb *testing.PB) {
				for pb.Next() {
					i := n.Add(1)
					key := keys[i%uint64(len(keys))]
					if i%10 == 0 {
						store.Set(key, "updated")
					} else {
						store.Get(key)
					}
				}
			})
		})
	}
}
