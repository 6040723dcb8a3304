// Package main provides the entry point for rifsredis-server.
//
// The server keeps one in-memory key/value mapping and serves it to
// any number of clients over newline-delimited JSON on TCP. It
// optionally exposes Prometheus metrics over HTTP.
//
// Usage:
//
//	rifsredis-server [flags]
//	rifsredis-server -config /etc/rifsredis/server.yaml
//	RIFSREDIS_SERVER_ADDR=0.0.0.0:6380 rifsredis-server
//
// When a config file is given, changes to log.level in it are applied
// without a restart.
package main
