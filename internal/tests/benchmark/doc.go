// Package benchmark holds performance benchmarks for rifsredis.
//
// Run with:
//
//	go test -bench=. -benchmem ./internal/tests/benchmark/
//
// Store benchmarks measure the sharded map directly; round-trip
// benchmarks drive a loopback server through pkg/client.
package benchmark
