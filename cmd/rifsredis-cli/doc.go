// Package main provides the entry point for rifsredis-cli.
//
// Usage:
//
//	rifsredis-cli [global flags] set KEY VALUE [--confirm]
//	rifsredis-cli [global flags] get KEY
//	rifsredis-cli -o json get user
//	rifsredis-cli version
package main
