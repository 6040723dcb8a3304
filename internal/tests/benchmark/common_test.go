package benchmark

import (
	"context"
	"fmt"
	"runtime"
	"testing"
	"time"

	"github.com/yndnr/rifsredis/internal/protocol"
	"github.com/yndnr/rifsredis/internal/server/kvserver"
	"github.com/yndnr/rifsredis/internal/storage/memory"
	"github.com/yndnr/rifsredis/pkg/client"
)

// KeyCounts defines the preloaded key counts for benchmarking.
var KeyCounts = []int{1000, 10000, 100000}

// newKey returns a unique key in the shape routes typically use.
func newKey(i int) string {
	return fmt.Sprintf("route:%d:%s", i, mustID())
}

func mustID() string {
	id, err := protocol.NewCorrelationID()
	if err != nil {
		panic(err)
	}
	return id
}

// prefillStore fills a store with count keys and returns them.
func prefillStore(store *memory.Store, count int) []string {
	keys := make([]string, count)
	for i := range keys {
		keys[i] = newKey(i)
		store.Set(keys[i], `{"status":200,"body":"ok"}`)
	}
	return keys
}

// reportMemory reports memory usage.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.Alloc)/(1024*1024), prefix+"_MB")
	b.ReportMetric(float64(m.NumGC), prefix+"_GC")
}

// runWithKeyCounts runs a benchmark function with various preload sizes.
func runWithKeyCounts(b *testing.B, counts []int, benchFn func(b *testing.B, count int)) {
	for _, count := range counts {
		b.Run(fmt.Sprintf("keys_%d", count), func(b *testing.B) {
			benchFn(b, count)
		})
	}
}

// startLoopback starts a server on an ephemeral port and a connected client.
func startLoopback(b *testing.B, store *memory.Store) *client.Client {
	b.Helper()

	srv := kvserver.New(&kvserver.Config{Address: "127.0.0.1:0"}, store, nil, nil)
	if err := srv.Start(context.Background()); err != nil {
		b.Fatalf("Start() error = %v", err)
	}
	b.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})

	c := client.New(client.Config{Address: srv.Addr().String()})
	if err := c.Init(context.Background()); err != nil {
		b.Fatalf("Init() error = %v", err)
	}
	b.Cleanup(func() { _ = c.Terminate() })
	return c
}
