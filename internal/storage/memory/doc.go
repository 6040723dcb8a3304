// Package memory provides the in-memory key/value store served by rifsredis.
//
// The store is a single process-wide mapping shared by every connection.
// Keys are distributed across shards, each guarded by its own RWMutex,
// so concurrent connections only contend when they touch the same shard.
//
// There is no expiration and no eviction: an entry lives until the
// process exits.
package memory
